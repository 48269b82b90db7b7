package model

import "time"

// EventRecord is a single marketplace activity event observed upstream.
//
// Identity is TxHash; every other field is display payload carried through
// to subscribers untouched.
type EventRecord struct {
	TxHash        string   `json:"txHash"`
	EventType     string   `json:"eventType"`
	NFTName       string   `json:"nftName,omitempty"`
	LatestPrice   *float64 `json:"latestPrice,omitempty"`
	SellerName    string   `json:"sellerName,omitempty"`
	SellerAddress string   `json:"sellerAddress,omitempty"`
	Marketplace   string   `json:"marketplace,omitempty"`
	NFTImg        string   `json:"nftImg,omitempty"`
	Timestamp     int64    `json:"timestamp"` // Relay observation time (ms since epoch)
}

// NowMillis returns the current wall clock time in milliseconds since epoch.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
