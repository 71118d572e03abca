package model

import "time"

// CrawlerState is the resumption cursor of a named crawler.
type CrawlerState struct {
	Name               CrawlerName `db:"name"`
	LastProcessedBlock int64       `db:"last_processed_block"`
	Timestamp          time.Time   `db:"timestamp"`
}
