package normalize

type clientsNormalizer struct{}

func (clientsNormalizer) fields() []string {
	return []string{
		"client_id", "name", "email", "organization", "phone",
		"currency", "created",
	}
}

func (clientsNormalizer) normalize(item map[string]any) []Record {
	return []Record{{
		"client_id":    scalar(firstOf(item, "id", "userid")),
		"name":         displayName(item),
		"email":        text(firstOf(item, "email")),
		"organization": text(firstOf(item, "organization")),
		"phone":        text(firstOf(item, "bus_phone", "home_phone", "mobile", "phone")),
		"currency":     text(firstOf(item, "currency_code", "currency")),
		"created":      formatDateTime(firstOf(item, "signup_date", "created_at")),
	}}
}
