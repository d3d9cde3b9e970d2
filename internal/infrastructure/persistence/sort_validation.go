package persistence

import "strings"

// ValidateSortOrder normalizes a sort direction, defaulting to DESC
func ValidateSortOrder(order string) string {
	switch strings.ToUpper(strings.TrimSpace(order)) {
	case "ASC":
		return "ASC"
	case "DESC":
		return "DESC"
	default:
		return "DESC"
	}
}

// ValidateSortField returns field when it appears in the whitelist, otherwise
// the fallback. Sort fields reach ORDER BY verbatim so they must never come
// from user input unchecked.
func ValidateSortField(field string, allowed map[string]bool, fallback string) string {
	if allowed[strings.TrimSpace(field)] {
		return strings.TrimSpace(field)
	}
	return fallback
}

// SupplySortFields lists the sortable columns for supply documents
var SupplySortFields = map[string]bool{
	"document_number": true,
	"supplier_name":   true,
	"received_at":     true,
	"document_status": true,
	"quality_status":  true,
	"created_at":      true,
	"updated_at":      true,
}

// PaymentSortFields lists the sortable columns for supply payments
var PaymentSortFields = map[string]bool{
	"amount_due": true,
	"status":     true,
	"created_at": true,
	"updated_at": true,
}

// ProductSortFields lists the sortable columns for products
var ProductSortFields = map[string]bool{
	"code":         true,
	"name":         true,
	"product_type": true,
	"created_at":   true,
	"updated_at":   true,
}

// WarehouseSortFields lists the sortable columns for warehouses
var WarehouseSortFields = map[string]bool{
	"code":       true,
	"name":       true,
	"created_at": true,
}

// UnitSortFields lists the sortable columns for units
var UnitSortFields = map[string]bool{
	"code":       true,
	"name":       true,
	"created_at": true,
}

// ParameterSortFields lists the sortable columns for checklist parameters
var ParameterSortFields = map[string]bool{
	"name":       true,
	"sort_order": true,
	"created_at": true,
}

// SupplierSortFields lists the sortable columns for suppliers
var SupplierSortFields = map[string]bool{
	"code":       true,
	"name":       true,
	"created_at": true,
	"updated_at": true,
}

// UserSortFields lists the sortable columns for users
var UserSortFields = map[string]bool{
	"email":      true,
	"full_name":  true,
	"created_at": true,
}

// LotRunSortFields lists the sortable columns for lot runs
var LotRunSortFields = map[string]bool{
	"lot_number": true,
	"stage":      true,
	"status":     true,
	"started_at": true,
	"created_at": true,
	"updated_at": true,
}
