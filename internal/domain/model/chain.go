package model

type Network string

const (
	NetworkMainnet   Network = "mainnet"
	NetworkHousefire Network = "housefire"
	NetworkTestnet   Network = "testnet"
)

func (n Network) String() string {
	return string(n)
}

// ExitStatus is the execution outcome of a wrapper or inner transaction.
type ExitStatus string

const (
	ExitStatusApplied  ExitStatus = "applied"
	ExitStatusRejected ExitStatus = "rejected"
)

func (s ExitStatus) String() string {
	return string(s)
}

// ParseExitStatus accepts the gateway's exit code spelling. Anything other
// than an explicit success is treated as rejected.
func ParseExitStatus(raw string) ExitStatus {
	switch raw {
	case "applied", "Applied", "APPLIED", "0":
		return ExitStatusApplied
	default:
		return ExitStatusRejected
	}
}

type CrawlerName string

const (
	CrawlerNameTransactions CrawlerName = "transactions"
)

func (c CrawlerName) String() string {
	return string(c)
}
