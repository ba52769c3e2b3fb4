package resource

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/catalogops/catalog-mcp/pkg/uritemplate"
)

// FAQTemplateURI is the template matching all FAQ lookups.
const FAQTemplateURI = "faqs://{q}"

// faqAnswers maps a question key to its canned answer.
var faqAnswers = map[string]string{
	"login":    "How I can sign in",
	"checkout": "How I can checkout cart",
	"cart":     "How I can add product to cart",
}

// defaultFAQAnswer is returned for any question key without a canned answer.
const defaultFAQAnswer = "register"

// RegisterFAQResources registers the faqs://{q} template resource.
func RegisterFAQResources(log logrus.FieldLogger, reg Registry) {
	log = log.WithField("resource", "faqs")

	reg.RegisterTemplate(TemplateResource{
		Template: mcp.NewResourceTemplate(
			FAQTemplateURI,
			"Store FAQs",
			mcp.WithTemplateDescription("Canned answers to frequent store questions, keyed by topic"),
			mcp.WithTemplateMIMEType("text/plain"),
		),
		Pattern: uritemplate.MustParse(FAQTemplateURI),
		Handler: createFAQHandler(log),
	})

	log.Debug("Registered FAQ resources")
}

func createFAQHandler(log logrus.FieldLogger) ReadHandler {
	return func(_ context.Context, _ string, vars map[string]string) (string, error) {
		q := vars["q"]

		answer, ok := faqAnswers[q]
		if !ok {
			log.WithField("q", q).Debug("No canned answer, using default")

			return defaultFAQAnswer, nil
		}

		return answer, nil
	}
}
