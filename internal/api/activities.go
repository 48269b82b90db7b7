package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/suimarket/nft-relay/internal/model"
)

// FetchError is any failure talking to the upstream provider: network error,
// non-2xx status, or a payload that does not match the contract. It is always
// recovered locally by the poller; nothing past this boundary panics.
type FetchError struct {
	Cause      string
	StatusCode int // 0 unless the failure was an HTTP status
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream fetch: %s (status %d)", e.Cause, e.StatusCode)
	}
	return "upstream fetch: " + e.Cause
}

// ActivityQuery selects which collection activity to fetch.
type ActivityQuery struct {
	CollectionID string
	EventTypes   []string
	Marketplaces []string
}

// activityFilter is the request body for the activities endpoint.
type activityFilter struct {
	EventTypes   []string `json:"eventTypes"`
	Marketplaces []string `json:"marketplaces"`
}

// activityPage is the expected success response shape.
type activityPage struct {
	Content []activityItem `json:"content"`
}

// activityItem mirrors one event object from the provider.
type activityItem struct {
	TxHash        string   `json:"txHash"`
	EventType     string   `json:"eventType"`
	NFTName       string   `json:"nftName"`
	LatestPrice   *float64 `json:"latestPrice"`
	SellerName    string   `json:"sellerName"`
	SellerAddress string   `json:"sellerAddress"`
	Marketplace   string   `json:"marketplace"`
	NFTImg        string   `json:"nftImg"`
}

// FetchActivities performs one fetch against the provider and returns the
// normalized event records in upstream response order (newest first).
func (c *Client) FetchActivities(ctx context.Context, q ActivityQuery) ([]model.EventRecord, error) {
	filter := activityFilter{
		EventTypes:   q.EventTypes,
		Marketplaces: q.Marketplaces,
	}
	if filter.EventTypes == nil {
		filter.EventTypes = []string{}
	}
	if filter.Marketplaces == nil {
		filter.Marketplaces = []string{}
	}

	body, err := json.Marshal(filter)
	if err != nil {
		return nil, &FetchError{Cause: "encode filter: " + err.Error()}
	}

	query := url.Values{}
	query.Set("page", "0")
	query.Set("size", fmt.Sprintf("%d", c.pageSize))
	query.Set("orderBy", "DESC")
	query.Set("sortBy", "AGE")

	fullURL := fmt.Sprintf("%s/nfts/collection/%s/activities?%s",
		c.baseURL, url.PathEscape(q.CollectionID), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(body))
	if err != nil {
		return nil, &FetchError{Cause: "create request: " + err.Error()}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Cause: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Cause: "read response: " + err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			Cause:      http.StatusText(resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	var page activityPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, &FetchError{Cause: "malformed payload: " + err.Error()}
	}
	if page.Content == nil {
		return nil, &FetchError{Cause: "malformed payload: missing content array"}
	}

	observedAt := model.NowMillis()
	records := make([]model.EventRecord, 0, len(page.Content))
	for _, item := range page.Content {
		if item.TxHash == "" {
			c.logger.Debug("skipping activity without txHash", "event_type", item.EventType)
			continue
		}
		records = append(records, model.EventRecord{
			TxHash:        item.TxHash,
			EventType:     item.EventType,
			NFTName:       item.NFTName,
			LatestPrice:   item.LatestPrice,
			SellerName:    item.SellerName,
			SellerAddress: item.SellerAddress,
			Marketplace:   item.Marketplace,
			NFTImg:        item.NFTImg,
			Timestamp:     observedAt,
		})
	}

	return records, nil
}
