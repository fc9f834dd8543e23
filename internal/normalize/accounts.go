package normalize

// Ledger-side resources: chart of accounts, journal entries, taxes.

type chartOfAccountsNormalizer struct{}

func (chartOfAccountsNormalizer) fields() []string {
	return []string{
		"account_name", "account_number", "account_type", "balance",
		"currency", "parent_name", "parent_number", "is_sub_account",
	}
}

// normalize expands one account into a parent record plus one record per
// sub-account, each child carrying a back-reference to the parent.
func (chartOfAccountsNormalizer) normalize(item map[string]any) []Record {
	parentName := text(firstOf(item, "name", "account_name"))
	parentNumber := scalar(firstOf(item, "number", "account_number"))

	parent := Record{
		"account_name":   parentName,
		"account_number": parentNumber,
		"account_type":   scalar(firstOf(item, "type", "account_type", "sub_type")),
		"balance":        money(firstOf(item, "balance")),
		"currency":       text(firstOf(item, "currency_code", "currency")),
		"is_sub_account": false,
	}
	out := []Record{parent}

	for _, sub := range objectArray(firstOf(item, "sub_accounts", "subaccounts")) {
		out = append(out, Record{
			"account_name":   text(firstOf(sub, "name", "account_name")),
			"account_number": scalar(firstOf(sub, "number", "account_number", "account_sub_number")),
			"account_type":   scalar(firstOf(sub, "type", "account_type", "sub_type")),
			"balance":        money(firstOf(sub, "balance")),
			"currency":       text(firstOf(sub, "currency_code", "currency")),
			"parent_name":    parentName,
			"parent_number":  parentNumber,
			"is_sub_account": true,
		})
	}
	return out
}

type journalEntriesNormalizer struct{}

func (journalEntriesNormalizer) fields() []string {
	return []string{
		"entry_id", "date", "description", "account_name",
		"account_number", "debit", "credit", "currency",
	}
}

func (journalEntriesNormalizer) normalize(item map[string]any) []Record {
	accountName := text(firstOf(item, "account_name"))
	accountNumber := scalar(firstOf(item, "account_number"))
	if acc, ok := item["account"].(map[string]any); ok {
		if accountName == nil {
			accountName = text(firstOf(acc, "name", "account_name"))
		}
		if accountNumber == nil {
			accountNumber = scalar(firstOf(acc, "number", "account_number"))
		}
	}

	return []Record{{
		"entry_id":       scalar(firstOf(item, "id", "entryid", "journal_entry_id")),
		"date":           formatDate(firstOf(item, "date", "user_entered_date")),
		"description":    text(firstOf(item, "description", "detail", "name")),
		"account_name":   accountName,
		"account_number": accountNumber,
		"debit":          money(firstOf(item, "debit")),
		"credit":         money(firstOf(item, "credit")),
		"currency":       text(firstOf(item, "currency_code", "currency")),
	}}
}

type taxesNormalizer struct{}

func (taxesNormalizer) fields() []string {
	return []string{"tax_id", "name", "rate", "number", "compound"}
}

func (taxesNormalizer) normalize(item map[string]any) []Record {
	return []Record{{
		"tax_id":   scalar(firstOf(item, "id", "taxid")),
		"name":     text(firstOf(item, "name")),
		"rate":     number(firstOf(item, "rate"), 0),
		"number":   scalar(firstOf(item, "number")),
		"compound": scalar(firstOf(item, "compound")),
	}}
}
