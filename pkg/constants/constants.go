// Package constants provides shared constants for the mortgage-analytics application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// DisplayDecimalPlaces is the number of decimals shown in rendered tables
	DisplayDecimalPlaces = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Scenario assumption defaults. Rates are fractions, not percentages.
const (
	// BuyToLetDepositPercent is the deposit required for buy-to-let purchases
	BuyToLetDepositPercent = 0.25

	// ResidentialDepositPercent is the deposit required for residential purchases
	ResidentialDepositPercent = 0.10

	// LimitedCompanyInterestRate applies to every limited company mortgage
	LimitedCompanyInterestRate = 0.0544

	// BuyToLetInterestRate applies to privately owned buy-to-let mortgages
	BuyToLetInterestRate = 0.045

	// ResidentialInterestRate applies to privately owned residential mortgages
	ResidentialInterestRate = 0.049

	// LimitedCompanyLendersFee is the arrangement fee for company borrowers
	LimitedCompanyLendersFee = 2000.0

	// PrivateLendersFee is the arrangement fee for private borrowers
	PrivateLendersFee = 1000.0

	// CorporationTaxRate is charged on limited company rental profit
	CorporationTaxRate = 0.19

	// IncomeTaxRate is charged on private rental revenue
	IncomeTaxRate = 0.4

	// MortgageInterestReliefRate is the tax credit on private mortgage interest
	MortgageInterestReliefRate = 0.2
)

// Cash-flow surface grid defaults
const (
	SurfacePriceMin  = 200000
	SurfacePriceMax  = 400000
	SurfacePriceStep = 10000
	SurfaceRentStep  = 10

	// DefaultMinimumCashflow is the monthly cash flow a surface point must
	// exceed to be reported as viable
	DefaultMinimumCashflow = 500.0
)

// Property input defaults
const (
	DefaultPrice              = 300000.0
	DefaultRent               = 1800.0
	DefaultServiceCharge      = 2000.0
	DefaultAdditionalExpenses = 2000.0
	DefaultTerm               = 25

	// Typical input bounds; values outside only produce warnings
	MinTypicalPrice = 100000.0
	MaxTypicalPrice = 500000.0
	MinTypicalRent  = 500.0
	MaxTypicalRent  = 3000.0
	MinTypicalTerm  = 5
	MaxTypicalTerm  = 40
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatPDF is the PDF report output format
	OutputFormatPDF = "pdf"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "MORTGAGE"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// DefaultCacheTTL is the default lifetime of cached surface results
	DefaultCacheTTL = "10m"

	// DefaultCacheMaxEntries bounds the in-memory surface cache
	DefaultCacheMaxEntries = 64

	// CacheKeyPrefix namespaces cache entries in shared stores
	CacheKeyPrefix = "mortgage-analytics:surface:"
)
