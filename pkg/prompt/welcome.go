package prompt

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/catalogops/catalog-mcp/pkg/schema"
)

// CustomerWelcomePromptName is the name of the customer welcome prompt.
const CustomerWelcomePromptName = "customer-welcome"

// NewCustomerWelcomePrompt returns the customer-welcome prompt, which asks
// for a welcome message tailored to a customer name and tone.
func NewCustomerWelcomePrompt(log logrus.FieldLogger) Definition {
	log = log.WithField("prompt", CustomerWelcomePromptName)

	shape := schema.Shape{
		"name":  {Kind: schema.String, Description: "Customer name", Required: true},
		"style": {Kind: schema.String, Description: "Tone of the message, e.g. formal or casual", Required: true},
	}

	return Definition{
		Prompt: mcp.Prompt{
			Name:        CustomerWelcomePromptName,
			Description: "Generate a welcome message for a new store customer",
			Arguments:   shape.PromptArguments(),
		},
		Shape: shape,
		Handler: func(_ context.Context, args schema.Values) (string, error) {
			name := args.String("name")
			style := args.String("style")

			log.WithFields(logrus.Fields{
				"name":  name,
				"style": style,
			}).Debug("Rendering welcome prompt")

			return fmt.Sprintf(
				"Write a %s welcome message for a customer named %s. "+
					"Mention that they can browse the product catalog, ask FAQ "+
					"questions, and read the shopping policy.",
				style, name,
			), nil
		},
	}
}
