package quote

import (
	"context"

	"go.uber.org/zap"

	"github.com/Simplici0/ggr-quote/internal/catalog"
	"github.com/Simplici0/ggr-quote/internal/emailjs"
	"github.com/Simplici0/ggr-quote/internal/order"
)

// Mailer delivers quote requests of one product line through EmailJS.
type Mailer struct {
	Catalog *catalog.Catalog
	Client  *emailjs.Client
	Logger  *zap.Logger
}

// Configured reports whether the EmailJS identifiers are set.
func (m *Mailer) Configured() bool {
	return m.Client != nil && m.Client.Configured()
}

// SendQuote renders the submission and sends it.
func (m *Mailer) SendQuote(ctx context.Context, sub order.Submission) error {
	content := Build(m.Catalog, sub)
	if err := m.Client.Send(ctx, content.TemplateParams(sub.Customer)); err != nil {
		m.Logger.Error("send quote request",
			zap.String("line", string(sub.Policy.Line)),
			zap.Int("items", len(sub.Items)),
			zap.Error(err),
		)
		return err
	}

	m.Logger.Info("quote request sent",
		zap.String("line", string(sub.Policy.Line)),
		zap.Int("items", len(sub.Items)),
		zap.Float64("grand_total", sub.Summary.GrandTotal),
	)
	return nil
}
