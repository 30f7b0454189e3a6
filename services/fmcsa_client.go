package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/loadlink/intake-backend/config"
	"github.com/loadlink/intake-backend/models"
	"github.com/loadlink/intake-backend/shared"
	"github.com/sirupsen/logrus"
)

// maxResponseBytes caps how much of a registry response is read; FMCSA
// carrier payloads are a few KB.
const maxResponseBytes = 1 << 20

// FMCSAClient is a thin client for the FMCSA QC Services carrier lookup.
// Verification failure is advisory: Verify never returns an error, it folds
// every failure mode into the verdict so the pipeline can proceed.
type FMCSAClient struct {
	webKey     string
	baseURL    string
	maxRetries int
	backoff    time.Duration
	httpClient *http.Client
	Metrics    *shared.ServiceMetrics
}

// NewFMCSAClient creates a verification client from configuration. An empty
// webkey selects offline mode: Verify short-circuits without network access.
func NewFMCSAClient(cfg *config.Config, factory *shared.HTTPClientFactory) *FMCSAClient {
	return &FMCSAClient{
		webKey:     strings.TrimSpace(cfg.FMCSAWebKey),
		baseURL:    strings.TrimRight(cfg.FMCSABaseURL, "/"),
		maxRetries: cfg.GetFMCSAMaxRetries(),
		backoff:    cfg.GetFMCSABackoff(),
		httpClient: factory.CreateHTTPClient(cfg.GetFMCSATimeout()),
		Metrics:    shared.NewServiceMetrics("FMCSA_Client"),
	}
}

// Verify checks an MC number against `{base}/carriers/{mc}?webKey=...` and
// normalizes the registry's answer into a VerificationVerdict. Transport
// failures and non-2xx responses are retried up to the configured maximum
// with a constant backoff between attempts; exhausting retries, like a
// malformed response body, yields an unavailable verdict rather than an
// error.
func (c *FMCSAClient) Verify(ctx context.Context, mcNumber string) *models.VerificationVerdict {
	checkedAt := time.Now().UTC()

	if c.webKey == "" || mcNumber == "" {
		logrus.WithField("component", "FMCSAClient").
			Debug("Skipping FMCSA verification: missing webkey or MC number")
		return &models.VerificationVerdict{
			Valid:       false,
			Unavailable: true,
			CheckedAt:   checkedAt,
			Error:       "missing_webkey_or_mc",
		}
	}

	lookupURL := fmt.Sprintf("%s/carriers/%s?webKey=%s",
		c.baseURL, url.PathEscape(mcNumber), url.QueryEscape(c.webKey))
	endpoint := strings.ReplaceAll(lookupURL, c.webKey, "****")

	started := time.Now()
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return c.unavailable(checkedAt, endpoint, err.Error())
	}
	request.Header.Set("Accept", "application/json")

	response, err := shared.ExecuteRequestWithRetry(c.httpClient, request, c.maxRetries, c.backoff)
	if err != nil {
		c.Metrics.RecordRequest(false, time.Since(started))
		return c.unavailable(checkedAt, endpoint, err.Error())
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		c.Metrics.RecordRequest(false, time.Since(started))
		return c.unavailable(checkedAt, endpoint, err.Error())
	}
	c.Metrics.RecordRequest(true, time.Since(started))

	return c.parseVerdict(body, checkedAt, endpoint)
}

// parseVerdict extracts the carrier's operating status from a registry
// payload. The carrier details live under content.carrier, with content
// itself as fallback; mc_valid reflects allowedToOperate == "Y", not merely
// that a response arrived.
func (c *FMCSAClient) parseVerdict(body []byte, checkedAt time.Time, endpoint string) *models.VerificationVerdict {
	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return c.unavailable(checkedAt, endpoint, "malformed response body")
	}

	content, ok := data["content"].(map[string]interface{})
	if !ok {
		verdict := c.unavailable(checkedAt, endpoint, "not_found")
		if msg, isString := data["content"].(string); isString && msg != "" {
			verdict.Error = msg
		}
		verdict.Raw = json.RawMessage(body)
		return verdict
	}

	source := content
	if carrier, isMap := content["carrier"].(map[string]interface{}); isMap {
		source = carrier
	}

	allowed := stringify(source["allowedToOperate"])
	dot := stringify(source["dotNumber"])
	if dot == nil {
		dot = stringify(source["usdotNumber"])
	}
	legalName := stringify(source["legalName"])

	valid := allowed != nil && strings.EqualFold(*allowed, "Y")

	logrus.WithFields(logrus.Fields{
		"component": "FMCSAClient",
		"valid":     valid,
		"endpoint":  endpoint,
	}).Debug("FMCSA verification completed")

	return &models.VerificationVerdict{
		Valid:            valid,
		AllowedToOperate: allowed,
		DOTNumber:        dot,
		CarrierName:      legalName,
		Endpoint:         endpoint,
		CheckedAt:        checkedAt,
		Raw:              json.RawMessage(body),
	}
}

func (c *FMCSAClient) unavailable(checkedAt time.Time, endpoint, reason string) *models.VerificationVerdict {
	return &models.VerificationVerdict{
		Valid:       false,
		Unavailable: true,
		Endpoint:    endpoint,
		CheckedAt:   checkedAt,
		Error:       reason,
	}
}

// stringify renders a decoded JSON scalar as a string pointer, nil for
// absent values. Whole numbers print without a decimal point so DOT numbers
// survive the float64 round trip.
func stringify(v interface{}) *string {
	var s string
	switch value := v.(type) {
	case nil:
		return nil
	case string:
		s = value
	case float64:
		s = strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(value)
	default:
		s = fmt.Sprintf("%v", value)
	}
	return &s
}
