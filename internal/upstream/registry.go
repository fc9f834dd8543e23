package upstream

import (
	"context"
	"fmt"
)

// IdentifierKind names the identifier a resource's URL is keyed by.
type IdentifierKind string

const (
	IdentifierNone         IdentifierKind = "none"
	IdentifierAccount      IdentifierKind = "account_id"
	IdentifierBusinessID   IdentifierKind = "business_id"
	IdentifierBusinessUUID IdentifierKind = "business_uuid"
)

// FetchMode selects the engine strategy for a resource.
type FetchMode string

const (
	FetchDirect          FetchMode = "direct"
	FetchSingleCall      FetchMode = "single_call"
	FetchPaginated       FetchMode = "paginated"
	FetchForcedPaginated FetchMode = "forced_paginated"
)

// Identifiers carries the caller-supplied upstream identifiers. Only the
// one a resource requires needs to be set.
type Identifiers struct {
	AccountID    string
	BusinessID   string
	BusinessUUID string
}

func (ids Identifiers) value(kind IdentifierKind) string {
	switch kind {
	case IdentifierAccount:
		return ids.AccountID
	case IdentifierBusinessID:
		return ids.BusinessID
	case IdentifierBusinessUUID:
		return ids.BusinessUUID
	}
	return ""
}

// URLBuilder produces a concrete request URL from the API base and the
// caller's identifiers. Builders return "" when the identifier they need
// is absent; the engine skips empty URLs.
type URLBuilder func(base string, ids Identifiers) string

// RecoveryFunc is a resource-specific fallback for direct resources: when
// the primary GET fails, it tries to produce the object another way.
type RecoveryFunc func(ctx context.Context, c *Client, base, accessToken string, ids Identifiers) (map[string]any, error)

// Descriptor is the registry entry for one resource type. Descriptors are
// shared and immutable; per-request URL state lives in urlCursor.
type Descriptor struct {
	Resource         string
	Mode             FetchMode
	Identifier       IdentifierKind
	ResultKey        string
	AllowDateFilter  bool
	PageSizeOverride int
	IncludeParams    []string
	URL              URLBuilder
	Alternates       []URLBuilder
	Recover          RecoveryFunc
}

func accountURL(path string) URLBuilder {
	return func(base string, ids Identifiers) string {
		if ids.AccountID == "" {
			return ""
		}
		return fmt.Sprintf("%s/accounting/account/%s/%s", base, ids.AccountID, path)
	}
}

func businessURL(path string) URLBuilder {
	return func(base string, ids Identifiers) string {
		if ids.BusinessUUID == "" {
			return ""
		}
		return fmt.Sprintf("%s/accounting/businesses/%s/%s", base, ids.BusinessUUID, path)
	}
}

var registry = map[string]*Descriptor{
	"profile": {
		Resource:   "profile",
		Mode:       FetchDirect,
		Identifier: IdentifierNone,
		URL: func(base string, _ Identifiers) string {
			return base + "/auth/api/v1/users/me"
		},
	},
	"business": {
		Resource:   "business",
		Mode:       FetchDirect,
		Identifier: IdentifierBusinessID,
		URL: func(base string, ids Identifiers) string {
			return fmt.Sprintf("%s/auth/api/v1/businesses/%s", base, ids.BusinessID)
		},
		Recover: recoverBusinessFromProfile,
	},
	"clients": {
		Resource:        "clients",
		Mode:            FetchPaginated,
		Identifier:      IdentifierAccount,
		ResultKey:       "clients",
		AllowDateFilter: true,
		URL:             accountURL("users/clients"),
	},
	"invoices": {
		Resource:        "invoices",
		Mode:            FetchPaginated,
		Identifier:      IdentifierAccount,
		ResultKey:       "invoices",
		AllowDateFilter: true,
		IncludeParams:   []string{"lines"},
		URL:             accountURL("invoices/invoices"),
	},
	"estimates": {
		Resource:        "estimates",
		Mode:            FetchPaginated,
		Identifier:      IdentifierAccount,
		ResultKey:       "estimates",
		AllowDateFilter: true,
		IncludeParams:   []string{"lines"},
		URL:             accountURL("estimates/estimates"),
	},
	"expenses": {
		Resource:        "expenses",
		Mode:            FetchPaginated,
		Identifier:      IdentifierAccount,
		ResultKey:       "expenses",
		AllowDateFilter: true,
		URL:             accountURL("expenses/expenses"),
	},
	"payments": {
		Resource:        "payments",
		Mode:            FetchPaginated,
		Identifier:      IdentifierAccount,
		ResultKey:       "payments",
		AllowDateFilter: true,
		URL:             accountURL("payments/payments"),
	},
	"credit_notes": {
		Resource:        "credit_notes",
		Mode:            FetchPaginated,
		Identifier:      IdentifierAccount,
		ResultKey:       "credit_notes",
		AllowDateFilter: true,
		IncludeParams:   []string{"lines"},
		URL:             accountURL("credit_notes/credit_notes"),
	},
	"bills": {
		Resource:        "bills",
		Mode:            FetchPaginated,
		Identifier:      IdentifierAccount,
		ResultKey:       "bills",
		AllowDateFilter: true,
		IncludeParams:   []string{"lines"},
		URL:             accountURL("bills/bills"),
		Alternates:      []URLBuilder{businessURL("bills")},
	},
	"bill_payments": {
		Resource:   "bill_payments",
		Mode:       FetchPaginated,
		Identifier: IdentifierAccount,
		ResultKey:  "bill_payments",
		URL:        accountURL("bill_payments/bill_payments"),
		Alternates: []URLBuilder{businessURL("bill_payments")},
	},
	"vendors": {
		Resource:   "vendors",
		Mode:       FetchPaginated,
		Identifier: IdentifierAccount,
		ResultKey:  "vendors",
		URL:        accountURL("bill_vendors/bill_vendors"),
		Alternates: []URLBuilder{businessURL("vendors")},
	},
	"taxes": {
		Resource:   "taxes",
		Mode:       FetchSingleCall,
		Identifier: IdentifierAccount,
		ResultKey:  "taxes",
		URL:        accountURL("taxes/taxes"),
	},
	"chart_of_accounts": {
		Resource:        "chart_of_accounts",
		Mode:            FetchSingleCall,
		Identifier:      IdentifierAccount,
		ResultKey:       "accounts",
		AllowDateFilter: true,
		URL:             accountURL("accounts/accounts"),
		Alternates:      []URLBuilder{businessURL("ledger_accounts")},
	},
	"journal_entries": {
		Resource:         "journal_entries",
		Mode:             FetchForcedPaginated,
		Identifier:       IdentifierBusinessUUID,
		ResultKey:        "journal_entries",
		PageSizeOverride: 100,
		URL:              businessURL("journal_entries"),
		Alternates: []URLBuilder{
			accountURL("journal_entries/journal_entries"),
		},
	},
}

// Lookup resolves a resource type to its descriptor.
func Lookup(resource string) (*Descriptor, error) {
	desc, ok := registry[resource]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResourceType, resource)
	}
	return desc, nil
}

// Resources returns the registered resource types in a stable order.
func Resources() []string {
	out := make([]string, 0, len(registry))
	for _, key := range []string{
		"profile", "business", "clients", "invoices", "estimates",
		"expenses", "payments", "credit_notes", "bills", "bill_payments",
		"vendors", "taxes", "chart_of_accounts", "journal_entries",
	} {
		if _, ok := registry[key]; ok {
			out = append(out, key)
		}
	}
	return out
}

// recoverBusinessFromProfile looks the business up through the broader
// identity call and matches it by id inside business_memberships.
func recoverBusinessFromProfile(ctx context.Context, c *Client, base, accessToken string, ids Identifiers) (map[string]any, error) {
	body, err := c.GetJSON(ctx, base+"/auth/api/v1/users/me", accessToken, nil)
	if err != nil {
		return nil, err
	}
	env := unwrapResponse(body)
	memberships, _ := asItems(env["business_memberships"])
	for _, m := range memberships {
		biz, ok := m["business"].(map[string]any)
		if !ok {
			continue
		}
		if fmt.Sprint(biz["id"]) == ids.BusinessID {
			return biz, nil
		}
	}
	return nil, fmt.Errorf("business %s not found in memberships", ids.BusinessID)
}

// requireIdentifier validates the caller supplied what the descriptor
// needs. Runs before any network call.
func (d *Descriptor) requireIdentifier(ids Identifiers) error {
	if d.Identifier == IdentifierNone || d.Identifier == "" {
		return nil
	}
	if ids.value(d.Identifier) == "" {
		return &MissingIdentifierError{Kind: d.Identifier}
	}
	return nil
}
