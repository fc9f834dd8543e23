// Package normalize reshapes raw upstream items into flat, CSV-stable
// records. Every resource type has a fixed output schema; every declared
// field is present in every record, nil when the upstream left it out.
package normalize

// Record is one flat output row.
type Record map[string]any

type normalizer interface {
	fields() []string
	normalize(item map[string]any) []Record
}

var normalizers = map[string]normalizer{
	"invoices":          invoicesNormalizer{},
	"estimates":         estimatesNormalizer{},
	"credit_notes":      creditNotesNormalizer{},
	"bills":             billsNormalizer{},
	"bill_payments":     billPaymentsNormalizer{},
	"expenses":          expensesNormalizer{},
	"payments":          paymentsNormalizer{},
	"clients":           clientsNormalizer{},
	"vendors":           vendorsNormalizer{},
	"taxes":             taxesNormalizer{},
	"chart_of_accounts": chartOfAccountsNormalizer{},
	"journal_entries":   journalEntriesNormalizer{},
	"profile":           profileNormalizer{},
	"business":          businessNormalizer{},
}

// Known reports whether a normalizer exists for the resource type.
func Known(resource string) bool {
	_, ok := normalizers[resource]
	return ok
}

// Fields returns the resource's output schema in column order.
func Fields(resource string) []string {
	n, ok := normalizers[resource]
	if !ok {
		return nil
	}
	return n.fields()
}

// Normalize converts one raw item into zero or more records. Records are
// padded so every schema field is present.
func Normalize(resource string, item map[string]any) []Record {
	n, ok := normalizers[resource]
	if !ok || item == nil {
		return nil
	}

	recs := n.normalize(item)
	out := recs[:0]
	for _, rec := range recs {
		if rec == nil {
			continue
		}
		for _, f := range n.fields() {
			if _, present := rec[f]; !present {
				rec[f] = nil
			}
		}
		out = append(out, rec)
	}
	return out
}
