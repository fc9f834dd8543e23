package normalize

import (
	"encoding/json"
	"testing"
)

func decodeItem(t *testing.T, raw string) map[string]any {
	t.Helper()
	var item map[string]any
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		t.Fatalf("bad test item: %v", err)
	}
	return item
}

func TestNormalizeBillWithLine(t *testing.T) {
	item := decodeItem(t, `{
		"id": 77,
		"bill_number": "B-1",
		"amount": {"amount": 150.5, "code": "USD"},
		"vendor": {"vendor_name": "Acme Supply"},
		"lines": [
			{"description": "Parts", "qty": 2, "unit_cost": {"amount": 10}}
		]
	}`)

	recs := Normalize("bills", item)
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	rec := recs[0]

	if rec["amount"] != 150.5 {
		t.Errorf("amount = %v, want 150.5", rec["amount"])
	}
	if rec["bill_number"] != "B-1" {
		t.Errorf("bill_number = %v, want B-1", rec["bill_number"])
	}
	if rec["line_items"] != 1 {
		t.Errorf("line_items = %v, want 1", rec["line_items"])
	}
	if rec["quantity"] != 2.0 {
		t.Errorf("quantity = %v, want 2", rec["quantity"])
	}
	if rec["unit_cost"] != 10.0 {
		t.Errorf("unit_cost = %v, want 10", rec["unit_cost"])
	}
	if rec["description"] != "Parts" {
		t.Errorf("description = %v, want Parts", rec["description"])
	}
	if rec["vendor"] != "Acme Supply" {
		t.Errorf("vendor = %v, want Acme Supply", rec["vendor"])
	}
}

func TestNormalizeInvoiceMultipleLines(t *testing.T) {
	item := decodeItem(t, `{
		"id": 5,
		"invoice_number": "INV-9",
		"organization": "Acme Corp",
		"amount": {"amount": "30.00"},
		"create_date": "2024-01-15",
		"lines": [
			{"name": "Design", "qty": 1, "unit_cost": {"amount": 10}},
			{"description": "Build", "qty": 2, "unit_cost": {"amount": 10}, "amount": {"amount": 20}}
		]
	}`)

	recs := Normalize("invoices", item)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	for i, rec := range recs {
		if rec["invoice_number"] != "INV-9" {
			t.Errorf("record %d lost header field, invoice_number = %v", i, rec["invoice_number"])
		}
		if rec["client"] != "Acme Corp" {
			t.Errorf("record %d client = %v", i, rec["client"])
		}
		if rec["line_items"] != 2 {
			t.Errorf("record %d line_items = %v, want 2", i, rec["line_items"])
		}
		if rec["create_date"] != "1/15/2024" {
			t.Errorf("record %d create_date = %v", i, rec["create_date"])
		}
	}
	if recs[0]["description"] != "Design" || recs[1]["description"] != "Build" {
		t.Errorf("line order not preserved: %v, %v", recs[0]["description"], recs[1]["description"])
	}
	if recs[0]["line_total"] != 10.0 {
		t.Errorf("computed line_total = %v, want 10", recs[0]["line_total"])
	}
	if recs[1]["line_total"] != 20.0 {
		t.Errorf("declared line_total = %v, want 20", recs[1]["line_total"])
	}
}

func TestNormalizeChartOfAccountsExpansion(t *testing.T) {
	item := decodeItem(t, `{
		"name": "Assets",
		"number": "1000",
		"type": "asset",
		"balance": {"amount": 500},
		"sub_accounts": [
			{"name": "Checking", "number": "1001", "balance": 300},
			{"name": "Savings", "number": "1002", "balance": 200}
		]
	}`)

	recs := Normalize("chart_of_accounts", item)
	if len(recs) != 3 {
		t.Fatalf("expected 3 records (parent + 2 subs), got %d", len(recs))
	}

	parent := recs[0]
	if parent["is_sub_account"] != false {
		t.Errorf("parent is_sub_account = %v", parent["is_sub_account"])
	}
	if parent["account_name"] != "Assets" || parent["balance"] != 500.0 {
		t.Errorf("unexpected parent record: %v", parent)
	}
	if parent["parent_name"] != nil {
		t.Errorf("parent record must not reference itself, got %v", parent["parent_name"])
	}

	for i, rec := range recs[1:] {
		if rec["is_sub_account"] != true {
			t.Errorf("sub %d is_sub_account = %v", i, rec["is_sub_account"])
		}
		if rec["parent_name"] != "Assets" || rec["parent_number"] != "1000" {
			t.Errorf("sub %d missing parent back-reference: %v", i, rec)
		}
	}
	if recs[1]["account_name"] != "Checking" || recs[2]["account_name"] != "Savings" {
		t.Errorf("sub-account order not preserved")
	}
}

func TestNormalizeExpenseSyntheticLine(t *testing.T) {
	item := decodeItem(t, `{
		"id": 3,
		"amount": {"amount": "42.00"},
		"date": "2024-06-01",
		"vendor": "Office Depot",
		"notes": "Printer paper",
		"category_name": "Supplies"
	}`)

	recs := Normalize("expenses", item)
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	rec := recs[0]
	if rec["quantity"] != 1.0 || rec["unit_cost"] != 42.0 || rec["line_total"] != 42.0 {
		t.Errorf("synthetic line wrong: %v", rec)
	}
	if rec["line_items"] != 1 {
		t.Errorf("line_items = %v, want 1", rec["line_items"])
	}
	if rec["vendor"] != "Office Depot" {
		t.Errorf("vendor = %v", rec["vendor"])
	}
	if rec["description"] != "Printer paper" {
		t.Errorf("description = %v", rec["description"])
	}
}

func TestNormalizePadsAllFields(t *testing.T) {
	recs := Normalize("clients", map[string]any{"id": 1.0})
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	for _, f := range Fields("clients") {
		if _, present := recs[0][f]; !present {
			t.Errorf("field %q absent from record", f)
		}
	}
	if recs[0]["email"] != nil {
		t.Errorf("missing upstream field should be nil, got %v", recs[0]["email"])
	}
}

func TestNormalizeUnknownResource(t *testing.T) {
	if recs := Normalize("nonsense", map[string]any{"id": 1.0}); recs != nil {
		t.Fatalf("expected nil for unknown resource, got %v", recs)
	}
	if Known("nonsense") {
		t.Fatal("nonsense should not be a known resource")
	}
	if !Known("invoices") {
		t.Fatal("invoices should be known")
	}
}

func TestNormalizeJournalEntryNestedAccount(t *testing.T) {
	item := decodeItem(t, `{
		"id": 9,
		"date": "2024-02-02",
		"description": "Opening balance",
		"account": {"name": "Cash", "number": "1010"},
		"debit": {"amount": 100},
		"credit": null
	}`)

	recs := Normalize("journal_entries", item)
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	rec := recs[0]
	if rec["account_name"] != "Cash" || rec["account_number"] != "1010" {
		t.Errorf("nested account not resolved: %v", rec)
	}
	if rec["debit"] != 100.0 || rec["credit"] != 0.0 {
		t.Errorf("debit/credit = %v/%v", rec["debit"], rec["credit"])
	}
	if rec["date"] != "2/2/2024" {
		t.Errorf("date = %v", rec["date"])
	}
}
