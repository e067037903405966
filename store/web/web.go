// Package web loads datasets from a url returning a json array of objects.
package web

import (
	"bytes"
	"context"
	"regexp"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"

	nt "sifter/entity"
)

var (
	// ErrInvalidURL is returned for locations that do not look like a url.
	ErrInvalidURL = errors.New("url is invalid")
	// ErrLoad is returned when the request fails or is refused.
	ErrLoad = errors.New("failed to load data from url")
	// ErrParse is returned when the body is not a non-empty array of objects.
	ErrParse = errors.New("failed to parse data from url")
)

var urlish = regexp.MustCompile(`^(?:\w+:)?//([^\s.]+\.\S{2}|localhost[:?\d]*)\S*$`)

// IsURL reports whether location looks like a url.
func IsURL(location string) bool {
	return urlish.MatchString(location)
}

// Config holds web loader options.
type Config struct {
	Timeout time.Duration `yaml:"timeout"`
}

// Web fetches datasets over http.
type Web struct {
	client *resty.Client
	logger nt.Logger
	url    string
	mu     sync.Mutex
}

func (cfg *Config) New(lgr nt.Logger) *Web {

	client := resty.New().
		SetHeader("Accept", "application/json")

	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &Web{
		client: client,
		logger: lgr,
	}
}

// Name returns the last url fetched.
func (wb *Web) Name() string {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	return wb.url
}

// Fetch gets url and parses the body into a result.
func (wb *Web) Fetch(ctx context.Context, url string) (result nt.Result, err error) {

	if !IsURL(url) {
		err = errors.Wrapf(ErrInvalidURL, "%q", url)
		return
	}

	resp, err := wb.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		wb.logger.Error(ctx, "request failed", err, "url", url)
		err = errors.Wrapf(ErrLoad, "%s", err)
		return
	}

	if !resp.IsSuccess() {
		err = errors.Wrapf(ErrLoad, "status %d", resp.StatusCode())
		wb.logger.Error(ctx, "request refused", err, "url", url)
		return
	}

	body := resp.Body()
	err = apiError(body)
	if err != nil {
		return
	}

	result, err = ParseResult(body)
	if err != nil {
		return
	}
	wb.mu.Lock()
	wb.url = url
	wb.mu.Unlock()

	wb.logger.Info(ctx, "loaded url", "url", url, "columns", len(result.Columns), "records", len(result.Data))
	return
}

// ParseResult decodes a json array of objects, taking columns from the
// keys of the first element in document order.
func ParseResult(body []byte) (result nt.Result, err error) {

	var raws []json.RawMessage
	err = json.Unmarshal(body, &raws)
	if err != nil {
		err = errors.Wrapf(ErrParse, "%s", err)
		return
	}
	if len(raws) == 0 {
		err = errors.Wrapf(ErrParse, "empty array")
		return
	}

	result.Columns, err = keyOrder(raws[0])
	if err != nil {
		return
	}

	result.Data = make([]nt.Record, 0, len(raws))
	for i, raw := range raws {
		rec := nt.Record{}
		if err = json.Unmarshal(raw, &rec); err != nil || rec == nil {
			err = errors.Wrapf(ErrParse, "element %d is not an object", i)
			return
		}
		result.Data = append(result.Data, rec)
	}

	return
}

// unexported

// apiError surfaces bodies shaped like {"error": true, "message": "..."}.
func apiError(body []byte) error {

	var failed struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &failed) != nil || failed.Error == nil || failed.Error == false {
		return nil
	}

	if failed.Message == "" {
		failed.Message = "remote reported an error"
	}
	return errors.Wrapf(ErrLoad, "%s", failed.Message)
}

func keyOrder(raw json.RawMessage) (keys []string, err error) {

	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		err = errors.Wrapf(ErrParse, "first element is not an object")
		return
	}

	keys = []string{}
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			err = errors.Wrapf(ErrParse, "%s", err)
			return
		}

		key, ok := tok.(string)
		if !ok {
			err = errors.Wrapf(ErrParse, "unexpected token %v", tok)
			return
		}
		keys = append(keys, key)

		var skip json.RawMessage
		if err = dec.Decode(&skip); err != nil {
			err = errors.Wrapf(ErrParse, "%s", err)
			return
		}
	}

	return
}
