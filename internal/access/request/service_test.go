// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package request_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/toolauth/internal/access/asset"
	"github.com/taibuivan/toolauth/internal/access/credential"
	"github.com/taibuivan/toolauth/internal/access/denial"
	"github.com/taibuivan/toolauth/internal/access/gateway"
	"github.com/taibuivan/toolauth/internal/access/ratelimit"
	"github.com/taibuivan/toolauth/internal/access/request"
	"github.com/taibuivan/toolauth/internal/access/settings"
	"github.com/taibuivan/toolauth/internal/users/member"
)

// # Harness

// staticSettings serves a fixed settings value.
type staticSettings struct{ value settings.Settings }

func (source *staticSettings) Current(context.Context) (settings.Settings, error) {
	return source.value, nil
}

// syncBuffer is a goroutine-safe log sink.
type syncBuffer struct {
	mu     sync.Mutex
	buffer bytes.Buffer
}

func (sink *syncBuffer) Write(p []byte) (int, error) {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	return sink.buffer.Write(p)
}

// records decodes every JSON log line.
func (sink *syncBuffer) records(t *testing.T) []map[string]any {
	t.Helper()
	sink.mu.Lock()
	defer sink.mu.Unlock()

	var records []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(sink.buffer.Bytes()))
	for scanner.Scan() {
		record := map[string]any{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &record))
		records = append(records, record)
	}
	return records
}

func (sink *syncBuffer) count(t *testing.T, msg string) int {
	total := 0
	for _, record := range sink.records(t) {
		if record["msg"] == msg {
			total++
		}
	}
	return total
}

// fakeGateway records what the upstream gateway received.
type fakeGateway struct {
	mu         sync.Mutex
	status     int
	body       string
	hits       int
	lastBody   string
	lastHeader http.Header
}

func (upstream *fakeGateway) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	upstream.mu.Lock()
	defer upstream.mu.Unlock()

	raw, _ := io.ReadAll(request.Body)
	upstream.hits++
	upstream.lastBody = string(raw)
	upstream.lastHeader = request.Header.Clone()

	writer.WriteHeader(upstream.status)
	_, _ = writer.Write([]byte(upstream.body))
}

type harness struct {
	service  *request.Service
	members  *member.MemoryRepository
	settings *staticSettings
	upstream *fakeGateway
	server   *httptest.Server
	logs     *syncBuffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	upstream := &fakeGateway{status: http.StatusCreated, body: "Card accepted"}
	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	logs := &syncBuffer{}
	logger := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	members := member.NewMemoryRepository()
	source := &staticSettings{value: settings.Settings{
		GatewayURL:        server.URL + "/toolauth/req",
		TimeoutSeconds:    2,
		MemberRole:        "member",
		RateLimit:         10,
		RateWindowSeconds: 60,
		AssetMap:          "frontdoor:\n  reader_name: front_reader\n  permission_id: main_door\n",
	}}

	sender := gateway.NewHTTPSender(server.Client())
	service := request.NewService(request.Dependencies{
		Settings:    source,
		Credentials: credential.NewResolver(members),
		Standing:    member.NewStandingLoader(members),
		Gateway:     gateway.NewClient(sender, logger),
		Health:      gateway.NewHealthChecker(sender),
		RateGate:    ratelimit.NewGate(nil, ratelimit.NewMemoryLimiter(), logger),
		Assets:      asset.NewCache(time.Minute),
	}, logger)

	return &harness{service: service, members: members, settings: source, upstream: upstream, server: server, logs: logs}
}

// withMember seeds an active member holding the member role and a card.
func (h *harness) withMember(userID, card string) {
	h.members.PutMember(&member.Member{ID: userID, Email: userID + "@example.org", Role: "member", CardSerial: card, IsActive: true})
}

func (h *harness) perform(t *testing.T, userID, assetID string) request.Result {
	t.Helper()
	result, err := h.service.Perform(context.Background(), request.Actor{UserID: userID, Email: userID + "@example.org"}, request.Input{AssetID: assetID, Source: "website"})
	require.NoError(t, err)
	return result
}

// # Scenarios

/*
TestPerform_UnmappedAssetAllowed sends the defaulted reader name.
*/
func TestPerform_UnmappedAssetAllowed(t *testing.T) {
	h := newHarness(t)
	h.withMember("u1", "CARD123")

	result := h.perform(t, "u1", "lathe")

	assert.Equal(t, request.StatusAllowed, result.Status)
	assert.Equal(t, gateway.OutcomeAllowed, result.Outcome)
	assert.Equal(t, 201, result.HTTPStatus)
	assert.Equal(t, request.MessageAllowed, result.Message)
	assert.Equal(t, "lathereader", result.ReaderName)
	assert.Equal(t, "lathe", result.PermissionID)
	assert.NotEmpty(t, result.RequestID)

	assert.Equal(t, `{"reader_name":"lathereader","card_id":"CARD123"}`, h.upstream.lastBody)
	assert.Empty(t, h.upstream.lastHeader.Get("X-Signature"))
	assert.Equal(t, 1, h.logs.count(t, "gateway_request_completed"))
}

/*
TestPerform_SignedMappedAsset signs exactly the bytes sent.
*/
func TestPerform_SignedMappedAsset(t *testing.T) {
	h := newHarness(t)
	h.settings.value.HMACSecret = "s3cret"
	h.withMember("u1", "CARD123")

	result := h.perform(t, "u1", "frontdoor")

	assert.Equal(t, request.StatusAllowed, result.Status)
	assert.Equal(t, "front_reader", result.ReaderName)
	assert.Equal(t, "main_door", result.PermissionID)

	body := `{"reader_name":"front_reader","card_id":"CARD123"}`
	assert.Equal(t, body, h.upstream.lastBody)
	assert.Equal(t, gateway.Sign("s3cret", []byte(body)), h.upstream.lastHeader.Get("X-Signature"))
}

/*
TestPerform_ProfileCredential uses the main profile card.
*/
func TestPerform_ProfileCredential(t *testing.T) {
	h := newHarness(t)
	h.withMember("u1", "")
	h.members.PutProfile(&member.Profile{ID: "p1", UserID: "u1", Type: "main", CardSerial: "PROFILE9"})

	result := h.perform(t, "u1", "lathe")

	assert.Equal(t, request.StatusAllowed, result.Status)
	assert.Equal(t, `{"reader_name":"lathereader","card_id":"PROFILE9"}`, h.upstream.lastBody)
}

/*
TestPerform_NoCredential halts before any network call.
*/
func TestPerform_NoCredential(t *testing.T) {
	h := newHarness(t)
	h.withMember("u1", "")

	result := h.perform(t, "u1", "lathe")

	assert.Equal(t, request.StatusNoCredential, result.Status)
	assert.Equal(t, request.MessageNoCredential, result.Message)
	assert.Empty(t, result.Outcome)
	assert.Zero(t, result.HTTPStatus)
	assert.Zero(t, h.upstream.hits)
	assert.Zero(t, h.logs.count(t, "gateway_request_completed"))
	assert.Equal(t, 1, h.logs.count(t, "credential_missing"))
}

/*
TestPerform_RateLimited rejects the attempt over the limit without a gateway call.
*/
func TestPerform_RateLimited(t *testing.T) {
	h := newHarness(t)
	h.settings.value.RateLimit = 2
	h.withMember("u1", "CARD123")

	assert.Equal(t, request.StatusAllowed, h.perform(t, "u1", "lathe").Status)
	assert.Equal(t, request.StatusAllowed, h.perform(t, "u1", "lathe").Status)

	third := h.perform(t, "u1", "lathe")
	assert.Equal(t, request.StatusRateLimited, third.Status)
	assert.Equal(t, request.MessageRateLimited, third.Message)
	assert.Positive(t, third.RetryAfter)

	assert.Equal(t, 2, h.upstream.hits)
	assert.Equal(t, 2, h.logs.count(t, "gateway_request_completed"), "no gateway log for the rejected call")
	assert.Equal(t, 1, h.logs.count(t, "rate_limit_exceeded"))

	h.withMember("u2", "CARD456")
	assert.Equal(t, request.StatusAllowed, h.perform(t, "u2", "lathe").Status, "limits are per actor")
}

/*
TestPerform_DeniedUsesPolicy picks the override message over payment failure.
*/
func TestPerform_DeniedUsesPolicy(t *testing.T) {
	h := newHarness(t)
	h.upstream.status = http.StatusForbidden
	h.upstream.body = "Card denied"
	h.settings.value.Messages = denial.Messages{
		Override: "Access revoked by staff.",
		Unpaid:   "Please {payment_link}.",
		Default:  "Access denied.",
	}
	h.withMember("u1", "CARD123")
	h.members.PutAttribute("u1", member.AttrAccessOverride, "deny")
	h.members.PutAttribute("u1", member.AttrPaymentFailed, "true")

	result := h.perform(t, "u1", "lathe")

	assert.Equal(t, request.StatusDenied, result.Status)
	assert.Equal(t, gateway.OutcomeDenied, result.Outcome)
	assert.Equal(t, 403, result.HTTPStatus)
	assert.Equal(t, string(denial.ReasonOverride), result.Reason)
	assert.Equal(t, "Access revoked by staff.", result.Message)
}

/*
TestPerform_DeniedFallback shows the status and a bounded excerpt.
*/
func TestPerform_DeniedFallback(t *testing.T) {
	h := newHarness(t)
	h.upstream.status = http.StatusUnauthorized
	h.upstream.body = strings.Repeat("x", 1000)
	h.withMember("u1", "CARD123")

	result := h.perform(t, "u1", "lathe")

	assert.Equal(t, request.StatusDenied, result.Status)
	assert.Equal(t, string(denial.ReasonFallback), result.Reason)
	assert.Contains(t, result.Message, "401")
	assert.LessOrEqual(t, len(result.Message), len("Access was denied (HTTP 401): ")+300)
}

/*
TestPerform_TransportError hides the raw error from the member.
*/
func TestPerform_TransportError(t *testing.T) {
	h := newHarness(t)
	h.server.Close()
	h.withMember("u1", "CARD123")

	result := h.perform(t, "u1", "lathe")

	assert.Equal(t, request.StatusError, result.Status)
	assert.Equal(t, gateway.OutcomeError, result.Outcome)
	assert.Zero(t, result.HTTPStatus)
	assert.Equal(t, string(denial.ReasonTransport), result.Reason)
	assert.Equal(t, denial.TemporaryErrorMessage, result.Message)
	assert.Equal(t, 1, h.logs.count(t, "gateway_request_completed"))
}

/*
TestPerform_Blocked stops before the gateway.
*/
func TestPerform_Blocked(t *testing.T) {
	h := newHarness(t)
	h.settings.value.UserBlockField = "access_blocked"
	h.settings.value.UserBlockMessage = "Talk to the front desk."
	h.withMember("u1", "CARD123")
	h.members.PutAttribute("u1", "access_blocked", "1")

	result := h.perform(t, "u1", "lathe")

	assert.Equal(t, request.StatusBlocked, result.Status)
	assert.Equal(t, "Talk to the front desk.", result.Message)
	assert.Zero(t, h.upstream.hits)
}

/*
TestPerform_NotConfigured degrades without a gateway URL.
*/
func TestPerform_NotConfigured(t *testing.T) {
	h := newHarness(t)
	h.settings.value.GatewayURL = ""
	h.withMember("u1", "CARD123")

	result := h.perform(t, "u1", "lathe")

	assert.Equal(t, request.StatusNotConfigured, result.Status)
	assert.Equal(t, request.MessageNotConfigured, result.Message)
	assert.Zero(t, h.upstream.hits)
}

/*
TestPerform_DryRun needs no gateway at all.
*/
func TestPerform_DryRun(t *testing.T) {
	h := newHarness(t)
	h.settings.value.GatewayURL = ""
	h.settings.value.DryRun = true
	h.withMember("u1", "CARD123")

	result := h.perform(t, "u1", "lathe")

	assert.Equal(t, request.StatusAllowed, result.Status)
	assert.Equal(t, 201, result.HTTPStatus)
	assert.True(t, result.DryRun)
	assert.Zero(t, h.upstream.hits)
}

/*
TestPerform_BrokenAssetMap falls back to defaults and logs the parse error.
*/
func TestPerform_BrokenAssetMap(t *testing.T) {
	h := newHarness(t)
	h.settings.value.AssetMap = "frontdoor: [oops"
	h.withMember("u1", "CARD123")

	result := h.perform(t, "u1", "frontdoor")

	assert.Equal(t, request.StatusAllowed, result.Status)
	assert.Equal(t, "frontdoorreader", result.ReaderName)
	assert.Equal(t, 1, h.logs.count(t, "asset_map_parse_failed"))
}

/*
TestPerform_StoreFailure is an error, not a missing credential.
*/
func TestPerform_StoreFailure(t *testing.T) {
	h := newHarness(t)
	h.members.Fail(assert.AnError)

	_, err := h.service.Perform(context.Background(), request.Actor{UserID: "u1"}, request.Input{AssetID: "lathe"})
	assert.Error(t, err)
	assert.Zero(t, h.upstream.hits)
}

/*
TestListAssets filters by category.
*/
func TestListAssets(t *testing.T) {
	h := newHarness(t)
	h.settings.value.AssetMap = "a:\n  category: doors\nb:\n  category: tools\n"

	assets, err := h.service.ListAssets(context.Background(), "tools")
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "b", assets[0].ID)
}

/*
TestGatewayHealth probes the derived health URL.
*/
func TestGatewayHealth(t *testing.T) {
	h := newHarness(t)
	h.upstream.status = http.StatusNotFound

	health, err := h.service.GatewayHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, gateway.HealthOptional, health.Status)
	assert.Equal(t, h.server.URL+"/health", health.URL)
}
