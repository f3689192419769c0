package mailprovider

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io"
	"net/http"
	texttemplate "text/template"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"unilance/logger"
	"unilance/providers"
)

//go:embed templates/*.html
var templateFS embed.FS

// Subject lines per template, rendered with the same data as the body.
var subjectTemplates = map[string]string{
	"welcome":              "Welcome to UniLance, {{.DisplayName}}",
	"application-received": "New application for {{.ProjectTitle}}",
	"application-accepted": "Your application for {{.ProjectTitle}} was accepted",
}

type emailTemplate struct {
	subject *texttemplate.Template
	body    *template.Template
}

type HostedMailProvider struct {
	apiURL     string
	apiKey     string
	from       string
	httpClient *http.Client
	templates  map[string]emailTemplate
	logger     *zap.Logger
}

// NewMailProvider parses the embedded transactional templates once and sends
// rendered messages through the hosted email API.
func NewMailProvider(cfg providers.MailConfig, lg *zap.Logger) (providers.MailProvider, error) {
	templates := make(map[string]emailTemplate, len(subjectTemplates))
	for name, subject := range subjectTemplates {
		subjTmpl, err := texttemplate.New(name + ".subject").Parse(subject)
		if err != nil {
			return nil, errors.Wrapf(err, "parse subject template %q", name)
		}
		bodyTmpl, err := template.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, errors.Wrapf(err, "parse body template %q", name)
		}
		templates[name] = emailTemplate{subject: subjTmpl, body: bodyTmpl}
	}

	return &HostedMailProvider{
		apiURL:     cfg.APIURL,
		apiKey:     cfg.APIKey,
		from:       cfg.From,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		templates:  templates,
		logger:     lg,
	}, nil
}

func (m *HostedMailProvider) Render(name string, data map[string]interface{}) (string, string, error) {
	tmpl, ok := m.templates[name]
	if !ok {
		return "", "", errors.Errorf("unknown email template %q", name)
	}

	var subject bytes.Buffer
	if err := tmpl.subject.Execute(&subject, data); err != nil {
		return "", "", errors.Wrapf(err, "render subject %q", name)
	}
	var body bytes.Buffer
	if err := tmpl.body.Execute(&body, data); err != nil {
		return "", "", errors.Wrapf(err, "render body %q", name)
	}
	return subject.String(), body.String(), nil
}

func (m *HostedMailProvider) Send(ctx context.Context, to, subject, html string) (string, error) {
	payload, err := jsoniter.Marshal(map[string]interface{}{
		"from":    m.from,
		"to":      []string{to},
		"subject": subject,
		"html":    html,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "email api request")
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var upstream map[string]interface{}
		if err := jsoniter.Unmarshal(raw, &upstream); err != nil {
			upstream = map[string]interface{}{"raw_length": len(raw)}
		}
		m.logger.Error("email api rejected message",
			zap.Int("status", resp.StatusCode),
			logger.Redacted("response", upstream),
		)
		return "", errors.Errorf("email api: unexpected status %d", resp.StatusCode)
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := jsoniter.Unmarshal(raw, &out); err != nil {
		return "", errors.Wrap(err, "decode email api response")
	}
	return out.ID, nil
}
