package inventory

import "fmt"

// Item identifies a sellable unit: a product, or one of its variants.
// Stock for a variant lives on the variant row, not the product row.
type Item struct {
	ProductID string
	VariantID *string
}

func ProductItem(productID string) Item {
	return Item{ProductID: productID}
}

func VariantItem(productID, variantID string) Item {
	return Item{ProductID: productID, VariantID: &variantID}
}

// Key is a stable identifier for logs and error messages.
func (i Item) Key() string {
	if i.VariantID != nil {
		return fmt.Sprintf("variant:%s", *i.VariantID)
	}
	return fmt.Sprintf("product:%s", i.ProductID)
}
