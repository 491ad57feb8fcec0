// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxResponseBytes bounds how much of a gateway response is read.
const maxResponseBytes = 64 << 10

// Response is a completed HTTP exchange.
type Response struct {
	Status int
	Body   string
}

// Sender performs the gateway POST. Any returned error is a transport failure.
type Sender interface {
	Post(ctx context.Context, url string, headers map[string]string, body []byte, timeout time.Duration) (Response, error)
}

// Prober performs the health GET.
type Prober interface {
	Get(ctx context.Context, url string, timeout time.Duration) (Response, error)
}

// HTTPSender implements [Sender] and [Prober] over a shared [http.Client].
type HTTPSender struct {
	client *http.Client
}

// NewHTTPSender creates an [HTTPSender]. A nil client uses a fresh one with default transport.
func NewHTTPSender(client *http.Client) *HTTPSender {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPSender{client: client}
}

// Post issues a single POST; there are no retries.
func (sender *HTTPSender) Post(ctx context.Context, url string, headers map[string]string, body []byte, timeout time.Duration) (Response, error) {
	return sender.do(ctx, http.MethodPost, url, headers, body, timeout)
}

// Get issues a single GET.
func (sender *HTTPSender) Get(ctx context.Context, url string, timeout time.Duration) (Response, error) {
	return sender.do(ctx, http.MethodGet, url, nil, nil, timeout)
}

func (sender *HTTPSender) do(ctx context.Context, method, url string, headers map[string]string, body []byte, timeout time.Duration) (Response, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	request, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return Response{}, fmt.Errorf("gateway_request_build_failed: %w", err)
	}
	for key, value := range headers {
		request.Header.Set(key, value)
	}

	response, err := sender.client.Do(request)
	if err != nil {
		return Response{}, err
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return Response{}, fmt.Errorf("gateway_response_read_failed: %w", err)
	}

	return Response{Status: response.StatusCode, Body: string(payload)}, nil
}
