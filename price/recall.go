package price

import (
	"context"
	"encoding/json"
	"math"
	"net"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/vadar/recall-ticker/config"
	"github.com/vadar/recall-ticker/http"
	"github.com/vadar/recall-ticker/token"
)

const priceEndpoint = "api/price"

type Client struct {
	BaseURL    *url.URL
	HTTPClient *http.Client
	apiKey     string
	defaults   query
	hasProxy   bool
}

func NewClient(cfg *config.Config, httpClient *http.Client) (*Client, error) {
	rawURL := cfg.APIURL
	if rawURL == "" {
		rawURL = config.DefaultBaseURL
	}
	baseURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid api url %q", rawURL)
	}
	c := &Client{
		BaseURL:    baseURL,
		HTTPClient: httpClient,
		apiKey:     cfg.APIKey,
		defaults:   query{chain: config.DefaultChain, specificChain: config.DefaultSpecificChain},
		hasProxy:   cfg.Proxy != "",
	}
	WithChain(cfg.Chain)(&c.defaults)
	WithSpecificChain(cfg.SpecificChain)(&c.defaults)
	return c, nil
}

func (c *Client) buildURL(endpoint string) string {
	u := *c.BaseURL
	u.Path = path.Join("/", u.Path, endpoint)
	return u.String()
}

func (c *Client) headers() map[string]string {
	h := map[string]string{"Content-Type": "application/json"}
	if c.apiKey != "" {
		h["Authorization"] = "Bearer " + c.apiKey
	}
	return h
}

func (c *Client) newQuery(opts []Option) query {
	q := c.defaults
	for _, opt := range opts {
		opt(&q)
	}
	return q
}

// QueryUSDPrice asks the price API for symbol's USD price. Unknown symbols
// fail with ErrUnknownToken as the cause, non-2xx responses with an
// *http.ResponseError and unsuccessful responses with an *APIError.
func (c *Client) QueryUSDPrice(ctx context.Context, symbol string, opts ...Option) (float64, error) {
	addr, ok := token.Lookup(symbol)
	if !ok {
		return 0, errors.Wrapf(ErrUnknownToken, "%q", symbol)
	}
	q := c.newQuery(opts)

	respBytes, err := c.HTTPClient.Get(ctx, c.buildURL(priceEndpoint), map[string]string{
		"token":         addr.Hex(),
		"chain":         q.chain,
		"specificChain": q.specificChain,
	}, c.headers())
	if err != nil {
		return 0, errors.Wrapf(err, "fetch %s price", symbol)
	}
	return parsePrice(respBytes)
}

// Response shape: {"success": bool, "price": number, "error": string}
func parsePrice(respBytes []byte) (float64, error) {
	// jsonparser only scans for keys, so truncated bodies would still yield a price
	if !json.Valid(respBytes) {
		return 0, errors.Wrap(ErrMalformedResponse, "decode response")
	}
	success, err := jsonparser.GetBoolean(respBytes, "success")
	if err != nil && err != jsonparser.KeyPathNotFoundError {
		return 0, errors.Wrap(err, "decode success flag")
	}
	if !success {
		msg, _ := jsonparser.GetString(respBytes, "error")
		if msg == "" {
			msg = "Unknown error"
		}
		return 0, &APIError{Message: msg}
	}

	value, dataType, _, err := jsonparser.Get(respBytes, "price")
	if err != nil {
		return 0, errors.Wrap(err, "decode price")
	}
	var price float64
	switch dataType {
	case jsonparser.Number:
		price, err = jsonparser.ParseFloat(value)
	case jsonparser.String:
		price, err = strconv.ParseFloat(string(value), 64)
	default:
		return 0, errors.Errorf("price is not a number: %s", value)
	}
	if err != nil {
		return 0, errors.Wrapf(err, "parse price %s", value)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, errors.Errorf("price is not finite: %s", value)
	}
	if price < 0 {
		return 0, errors.Errorf("negative price %v", price)
	}
	return price, nil
}

// GetTokenPrice never fails, any error is logged and priced as zero
func (c *Client) GetTokenPrice(ctx context.Context, symbol string, opts ...Option) float64 {
	start := time.Now()
	price, err := c.QueryUSDPrice(ctx, symbol, opts...)
	if err != nil {
		c.logFailure(symbol, err, time.Since(start))
		return 0
	}
	logrus.Infof("%s price: $%s", symbol, FormatUSD(price))
	return price
}

func (c *Client) logFailure(symbol string, err error, elapsed time.Duration) {
	logEntry := logrus.WithError(err).WithField("symbol", symbol)
	cause := errors.Cause(err)
	switch e := cause.(type) {
	case *APIError:
		logEntry.Warnf("Price API error for %s: %s", symbol, e.Message)
		return
	case *http.ResponseError:
		logEntry.WithField("status", e.StatusCode).Warnf("Price API rejected request for %s", symbol)
		return
	}
	if cause == ErrUnknownToken {
		logrus.Warnf("Unknown token symbol: %s", symbol)
		return
	}
	netErr, ok := cause.(net.Error)
	if ok && netErr.Timeout() {
		logEntry = logEntry.WithField("elapsed", elapsed.String())
	}
	logEntry.Warnf("Failed to get price for %s", symbol)
	if !c.hasProxy && ok && netErr.Timeout() {
		logrus.Info("Maybe you are blocked by a firewall, try using --proxy to go through a proxy?")
	}
}

// GetAllPrices prices every known token, one request at a time
func (c *Client) GetAllPrices(ctx context.Context, opts ...Option) map[string]float64 {
	symbols := token.Symbols()
	prices := make(map[string]float64, len(symbols))
	for _, symbol := range symbols {
		prices[symbol] = c.GetTokenPrice(ctx, symbol, opts...)
	}
	return prices
}

// GetSymbolPrices keeps the requested order, unknown and failed symbols are priced as zero
func (c *Client) GetSymbolPrices(ctx context.Context, symbols []string, opts ...Option) []*SymbolPrice {
	if len(symbols) == 0 {
		symbols = token.Symbols()
	}
	q := c.newQuery(opts)
	symbolPriceList := make([]*SymbolPrice, 0, len(symbols))
	for _, symbol := range symbols {
		sp := &SymbolPrice{
			Symbol:        symbol,
			Chain:         q.chain,
			SpecificChain: q.specificChain,
			Price:         c.GetTokenPrice(ctx, symbol, opts...),
			UpdateAt:      time.Now(),
		}
		if addr, ok := token.Lookup(symbol); ok {
			sp.Address = addr.Hex()
		}
		symbolPriceList = append(symbolPriceList, sp)
	}
	return symbolPriceList
}

// FormatUSD renders a price with four decimal places
func FormatUSD(price float64) string {
	return decimal.NewFromFloat(price).StringFixed(4)
}
