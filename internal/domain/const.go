package domain

import "time"

const (
	// Blockchain constants
	ETHEREUM_ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"

	// WEI_PER_ETHER is the number of wei in one ether (10^18)
	WEI_PER_ETHER = "1000000000000000000"

	// Event constraints
	DEFAULT_MIN_CAPACITY = 1
	DEFAULT_MAX_CAPACITY = 100000
	MAX_TITLE_LENGTH     = 200

	// Pagination
	DEFAULT_PAGE_LIMIT = 20
	MAX_PAGE_LIMIT     = 100
	MAX_PAGE           = 1_000_000

	// Content
	CONTENT_METADATA_MIME_TYPE = "application/json"
	DEFAULT_MAX_BANNER_SIZE    = 10 * 1024 * 1024

	// Ledger
	DEFAULT_CONFIRM_TIMEOUT = 2 * time.Minute
	DEFAULT_POLL_INTERVAL   = 3 * time.Second
)
