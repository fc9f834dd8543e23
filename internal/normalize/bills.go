package normalize

// Vendor-facing documents: bills, bill payments, vendors.

type billsNormalizer struct{}

func (billsNormalizer) fields() []string {
	return []string{
		"bill_id", "bill_number", "vendor", "status", "issue_date",
		"due_date", "amount", "outstanding", "currency", "description",
		"quantity", "unit_cost", "line_total", "line_items",
	}
}

func (billsNormalizer) normalize(item map[string]any) []Record {
	amount := money(firstOf(item, "amount", "total_amount"))
	header := Record{
		"bill_id":     scalar(firstOf(item, "id", "billid")),
		"bill_number": scalar(firstOf(item, "bill_number", "number")),
		"vendor":      counterparty(item["vendor"], item),
		"status":      scalar(firstOf(item, "status")),
		"issue_date":  formatDate(firstOf(item, "issue_date", "create_date")),
		"due_date":    formatDate(firstOf(item, "due_date")),
		"amount":      amount,
		"outstanding": money(firstOf(item, "outstanding", "outstanding_amount")),
		"currency":    text(firstOf(item, "currency_code", "currency")),
	}
	return expandLines(item, header, syntheticLine(text(firstOf(item, "description", "notes")), amount))
}

type billPaymentsNormalizer struct{}

func (billPaymentsNormalizer) fields() []string {
	return []string{
		"payment_id", "bill_id", "paid_date", "payment_type", "amount",
		"currency", "note",
	}
}

func (billPaymentsNormalizer) normalize(item map[string]any) []Record {
	return []Record{{
		"payment_id":   scalar(firstOf(item, "id", "paymentid")),
		"bill_id":      scalar(firstOf(item, "billid", "bill_id")),
		"paid_date":    formatDate(firstOf(item, "paid_date", "date")),
		"payment_type": scalar(firstOf(item, "payment_type", "type")),
		"amount":       money(firstOf(item, "amount")),
		"currency":     text(firstOf(item, "currency_code", "currency")),
		"note":         text(firstOf(item, "note", "notes")),
	}}
}

type vendorsNormalizer struct{}

func (vendorsNormalizer) fields() []string {
	return []string{
		"vendor_id", "name", "account_number", "email", "phone",
		"status", "created",
	}
}

func (vendorsNormalizer) normalize(item map[string]any) []Record {
	return []Record{{
		"vendor_id":      scalar(firstOf(item, "vendorid", "id", "vendor_id")),
		"name":           displayName(item),
		"account_number": scalar(firstOf(item, "account_number")),
		"email":          text(firstOf(item, "primary_contact_email", "email")),
		"phone":          text(firstOf(item, "phone")),
		"status":         scalar(firstOf(item, "status", "is_active")),
		"created":        formatDateTime(firstOf(item, "created_at")),
	}}
}
