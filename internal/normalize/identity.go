package normalize

// Identity resources come back as single objects rather than lists.

type profileNormalizer struct{}

func (profileNormalizer) fields() []string {
	return []string{
		"user_id", "email", "first_name", "last_name", "business_name",
		"confirmed_at",
	}
}

func (profileNormalizer) normalize(item map[string]any) []Record {
	var businessName any
	if memberships := objectArray(item["business_memberships"]); memberships != nil {
		if biz, ok := memberships[0]["business"].(map[string]any); ok {
			businessName = text(firstOf(biz, "name"))
		}
	}

	return []Record{{
		"user_id":       scalar(firstOf(item, "id")),
		"email":         text(firstOf(item, "email")),
		"first_name":    text(firstOf(item, "first_name", "fname")),
		"last_name":     text(firstOf(item, "last_name", "lname")),
		"business_name": businessName,
		"confirmed_at":  formatDateTime(firstOf(item, "confirmed_at")),
	}}
}

type businessNormalizer struct{}

func (businessNormalizer) fields() []string {
	return []string{"business_id", "business_uuid", "name", "currency", "country"}
}

func (businessNormalizer) normalize(item map[string]any) []Record {
	var country any
	if addr, ok := item["address"].(map[string]any); ok {
		country = text(firstOf(addr, "country"))
	}

	return []Record{{
		"business_id":   scalar(firstOf(item, "id", "business_id")),
		"business_uuid": text(firstOf(item, "business_uuid", "uuid")),
		"name":          text(firstOf(item, "name")),
		"currency":      text(firstOf(item, "currency_code", "currency")),
		"country":       country,
	}}
}
