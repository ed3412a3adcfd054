package workflow

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"go.yaml.in/yaml/v3"

	"github.com/KasumiMercury/primind-chat-reminder/internal/domain"
)

const (
	DefaultCredentialName = "CHATWORK_API_TOKEN"
	credentialPrefix      = "CHATWORK_TOKEN_"
	jobNamePrefix         = "reminder-"
	DefaultChatAPIBaseURL = "https://api.chatwork.com/v2"
)

const jobTemplate = `name: {{ .Name | quote }}

on:
  schedule:
    - cron: '{{ .Cron }}'
  workflow_dispatch:

jobs:
  send-reminder:
    runs-on: ubuntu-latest
    steps:
      - name: Send Chatwork Message
        env:
          CHATWORK_API_TOKEN: ${{ "{{" }} secrets.{{ .Credential }} }}
        run: |
          curl -X POST "{{ .Endpoint }}" \
            -H "X-ChatWorkToken: $CHATWORK_API_TOKEN" \
            -d "body={{ .Body }}"
`

type jobData struct {
	Name       string
	Cron       string
	Credential string
	Endpoint   string
	Body       string
}

// JobName is the stable identity of the job derived from a reminder.
func JobName(id domain.ReminderID) string {
	return jobNamePrefix + id.String()
}

// CredentialName is the secret the job reads its chat token from. Secret
// names only allow letters, digits and underscores.
func CredentialName(r *domain.Reminder) string {
	if !r.HasOwnToken() {
		return DefaultCredentialName
	}

	return credentialPrefix + strings.ToUpper(strings.ReplaceAll(r.ID().String(), "-", "_"))
}

// Renderer turns a reminder into a scheduled workflow definition that posts
// the message when it runs. Rendering has no side effects and the same
// reminder always renders the same text.
type Renderer struct {
	tmpl       *template.Template
	apiBaseURL string
}

func NewRenderer(apiBaseURL string) (*Renderer, error) {
	if apiBaseURL == "" {
		apiBaseURL = DefaultChatAPIBaseURL
	}

	tmpl, err := template.New("job").Funcs(sprig.TxtFuncMap()).Parse(jobTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse job template: %w", err)
	}

	return &Renderer{
		tmpl:       tmpl,
		apiBaseURL: strings.TrimRight(apiBaseURL, "/"),
	}, nil
}

func (r *Renderer) Render(reminder *domain.Reminder) (string, error) {
	expr, err := ToCron(reminder.Schedule())
	if err != nil {
		return "", err
	}

	data := jobData{
		Name:       reminder.Name(),
		Cron:       expr,
		Credential: CredentialName(reminder),
		Endpoint:   r.apiBaseURL + "/rooms/" + EscapeURIComponent(reminder.RoomID()) + "/messages",
		Body:       EscapeURIComponent(reminder.Message()),
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render job for reminder %s: %w", reminder.ID(), err)
	}

	var parsed map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &parsed); err != nil {
		return "", fmt.Errorf("rendered job for reminder %s is not valid YAML: %w", reminder.ID(), err)
	}

	return buf.String(), nil
}

// EscapeURIComponent percent-encodes everything except A-Z a-z 0-9 and
// - _ . ! ~ * ' ( ), the same set browsers leave alone in encodeURIComponent.
// The output carries no " $ ` or \ and is only safe inside a double-quoted
// shell word, which is how the job template embeds it.
func EscapeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder

	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if isURIUnreserved(c) {
			b.WriteByte(c)

			continue
		}

		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}

	return b.String()
}

func isURIUnreserved(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}

	return strings.IndexByte("-_.!~*'()", c) >= 0
}
