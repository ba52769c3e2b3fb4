package resource

import (
	"context"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// PolicyResourceURI is the literal URI of the store policy document.
const PolicyResourceURI = "docs:///policy/shopping.md"

// policyFallback is returned when the local policy document cannot be read,
// so the resource stays readable even with a broken deployment.
const policyFallback = "Unable to load resource"

// RegisterPolicyResource registers the docs:///policy/shopping.md resource,
// backed by a local markdown file.
func RegisterPolicyResource(log logrus.FieldLogger, reg Registry, path string) {
	log = log.WithField("resource", "policy")

	reg.RegisterStatic(StaticResource{
		Resource: mcp.NewResource(
			PolicyResourceURI,
			"Shopping Policy",
			mcp.WithResourceDescription("Store policies: shipping, returns, and payment terms"),
			mcp.WithMIMEType("text/markdown"),
		),
		Handler: createPolicyHandler(log, path),
	})

	log.Debug("Registered policy resource")
}

func createPolicyHandler(log logrus.FieldLogger, path string) ReadHandler {
	return func(_ context.Context, _ string, _ map[string]string) (string, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			log.WithError(err).WithField("path", path).Warn("Failed to read policy document")

			return policyFallback, nil
		}

		return string(data), nil
	}
}
