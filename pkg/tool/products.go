package tool

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/catalogops/catalog-mcp/pkg/catalog"
	"github.com/catalogops/catalog-mcp/pkg/schema"
)

// Tool names for the product catalog operations.
const (
	ListProductsToolName = "list-products"
	GetProductToolName   = "get-product"
	AddProductToolName   = "add-product"
)

// NewListProductsTool returns the list-products tool. It declares no input
// shape: parameters are accepted and ignored.
func NewListProductsTool(log logrus.FieldLogger, client catalog.Client) Definition {
	log = log.WithField("tool", ListProductsToolName)

	return Definition{
		Tool: mcp.Tool{
			Name:        ListProductsToolName,
			Description: "List all products in the catalog",
			InputSchema: mcp.ToolInputSchema{Type: "object"},
		},
		Handler: func(ctx context.Context, _ schema.Values) (string, error) {
			log.Debug("Listing products")

			raw, err := client.ListProducts(ctx)
			if err != nil {
				return "", err
			}

			return string(raw), nil
		},
	}
}

// NewGetProductTool returns the get-product tool.
func NewGetProductTool(log logrus.FieldLogger, client catalog.Client) Definition {
	log = log.WithField("tool", GetProductToolName)

	shape := schema.Shape{
		"id": {Kind: schema.String, Description: "Product identifier", Required: true},
	}

	return Definition{
		Tool: mcp.Tool{
			Name:        GetProductToolName,
			Description: "Fetch a single product by its identifier",
			InputSchema: shape.InputSchema(),
		},
		Shape: shape,
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			id := args.String("id")

			log.WithField("id", id).Debug("Fetching product")

			raw, err := client.GetProduct(ctx, id)
			if err != nil {
				return "", err
			}

			return string(raw), nil
		},
	}
}

// NewAddProductTool returns the add-product tool.
func NewAddProductTool(log logrus.FieldLogger, client catalog.Client) Definition {
	log = log.WithField("tool", AddProductToolName)

	shape := schema.Shape{
		"name":        {Kind: schema.String, Description: "Product name", Required: true},
		"price":       {Kind: schema.Number, Description: "Unit price", Required: true},
		"description": {Kind: schema.String, Description: "Product description", Required: true},
	}

	return Definition{
		Tool: mcp.Tool{
			Name:        AddProductToolName,
			Description: "Create a new product in the catalog",
			InputSchema: shape.InputSchema(),
		},
		Shape: shape,
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			product := catalog.NewProduct{
				Name:        args.String("name"),
				Price:       args.Float("price"),
				Description: args.String("description"),
			}

			log.WithField("name", product.Name).Debug("Creating product")

			raw, err := client.CreateProduct(ctx, product)
			if err != nil {
				return "", err
			}

			return string(raw), nil
		},
	}
}
