package order

import (
	"encoding/json"
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// DeliveryRecap is the wire shape of a partial-delivery audit payload. The
// JSON field names are a compatibility contract with the systems consuming
// the audit trail and must not change; everything else about the storage is
// free. The recap is always parsed into this typed structure on read and
// write, never handled as a raw map.
type DeliveryRecap struct {
	Delivered []RecapLine `json:"articles_livres"`
	Returned  []RecapLine `json:"recap_articles_renvoyes"`
}

// RecapLine is one summarized item of a delivery recap. The Condition field
// is only set on returned lines.
type RecapLine struct {
	ProductID string  `json:"article_id"`
	VariantID *string `json:"variante_id,omitempty"`
	Quantity  int     `json:"quantite"`
	Condition string  `json:"etat,omitempty"`
	UnitPrice string  `json:"prix_unitaire"`
}

// MarshalPayload encodes the recap for storage on an Operation record.
func (r DeliveryRecap) MarshalPayload() (string, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("encoding delivery recap: %w", err)
	}
	return string(raw), nil
}

// ParseDeliveryRecap decodes a stored recap payload back into its typed form.
func ParseDeliveryRecap(payload string) (DeliveryRecap, error) {
	var recap DeliveryRecap
	if err := json.Unmarshal([]byte(payload), &recap); err != nil {
		return DeliveryRecap{}, errs.NewValueIsInvalidErrorWithCause("delivery recap payload", err)
	}
	return recap, nil
}
