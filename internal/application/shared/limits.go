package shared

// Limits holds the fixed page and section sizes of the listings
type Limits struct {
	AdminPageSize      int
	StorefrontPageSize int
	NewsPageSize       int
	HomeSectionSize    int
	RelatedProducts    int
	RelatedNews        int
	LowStockThreshold  int
	DashboardRecent    int
}

// DefaultLimits returns the sizes the storefront ships with
func DefaultLimits() Limits {
	return Limits{
		AdminPageSize:      10,
		StorefrontPageSize: 12,
		NewsPageSize:       5,
		HomeSectionSize:    8,
		RelatedProducts:    4,
		RelatedNews:        3,
		LowStockThreshold:  10,
		DashboardRecent:    5,
	}
}
