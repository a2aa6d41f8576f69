package catalog

type sortSpec struct {
	orderBy  string
	orderDir string
}

// adminProductSorts maps admin list sort keys. Prices sort by list price.
// Unknown keys fall back to name ascending.
var adminProductSorts = map[string]sortSpec{
	"name_desc":  {"name", "desc"},
	"price":      {"list_price", "asc"},
	"price_desc": {"list_price", "desc"},
	"date":       {"created_at", "asc"},
	"date_desc":  {"created_at", "desc"},
}

var adminDefaultSort = sortSpec{"name", "asc"}

// storefrontSorts maps public catalog sort keys. Prices sort by what the
// shopper pays. Unknown keys fall back to newest.
var storefrontSorts = map[string]sortSpec{
	"newest":     {"created_at", "desc"},
	"price-asc":  {"price", "asc"},
	"price-desc": {"price", "desc"},
	"name-asc":   {"name", "asc"},
	"name-desc":  {"name", "desc"},
}

var storefrontDefaultSort = sortSpec{"created_at", "desc"}

func resolveSort(key string, allowed map[string]sortSpec, fallback sortSpec) sortSpec {
	if s, ok := allowed[key]; ok {
		return s
	}
	return fallback
}
