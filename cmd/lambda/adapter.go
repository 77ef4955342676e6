package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// serveAPIGateway runs req through h and converts the captured response
func serveAPIGateway(ctx context.Context, h http.Handler, req events.APIGatewayProxyRequest, logger *zap.Logger) events.APIGatewayProxyResponse {
	httpReq, err := createHTTPRequest(ctx, req)
	if err != nil {
		logger.Error("Error creating HTTP request", zap.Error(err))
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"error":"Internal server error"}`,
		}
	}

	rec := newResponseRecorder()
	h.ServeHTTP(rec, httpReq)

	return events.APIGatewayProxyResponse{
		StatusCode:        rec.statusCode,
		MultiValueHeaders: rec.header,
		Body:              string(rec.body),
	}
}

// createHTTPRequest creates an http.Request from an API Gateway event
func createHTTPRequest(ctx context.Context, req events.APIGatewayProxyRequest) (*http.Request, error) {
	var body io.Reader = http.NoBody
	if req.Body != "" {
		if req.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(req.Body)
			if err != nil {
				return nil, err
			}
			body = bytes.NewReader(decoded)
		} else {
			body = strings.NewReader(req.Body)
		}
	}

	// Resolve path parameters in the template
	path := req.Path
	for param, value := range req.PathParameters {
		path = strings.ReplaceAll(path, "{"+param+"}", value)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.HTTPMethod, path, body)
	if err != nil {
		return nil, err
	}

	query := httpReq.URL.Query()
	for param, values := range req.MultiValueQueryStringParameters {
		for _, v := range values {
			query.Add(param, v)
		}
	}
	for param, value := range req.QueryStringParameters {
		if _, ok := req.MultiValueQueryStringParameters[param]; !ok {
			query.Add(param, value)
		}
	}
	httpReq.URL.RawQuery = query.Encode()

	for key, values := range req.MultiValueHeaders {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	for key, value := range req.Headers {
		if httpReq.Header.Get(key) == "" {
			httpReq.Header.Set(key, value)
		}
	}

	if ip := req.RequestContext.Identity.SourceIP; ip != "" {
		httpReq.RemoteAddr = ip
	}

	return httpReq, nil
}

// responseRecorder captures the router's HTTP response
type responseRecorder struct {
	header      http.Header
	body        []byte
	statusCode  int
	wroteHeader bool
}

func newResponseRecorder() *responseRecorder {
	return &responseRecorder{
		header:     http.Header{},
		statusCode: http.StatusOK,
	}
}

// Header implements the http.ResponseWriter interface
func (r *responseRecorder) Header() http.Header {
	return r.header
}

// Write implements the http.ResponseWriter interface
func (r *responseRecorder) Write(body []byte) (int, error) {
	r.wroteHeader = true
	r.body = append(r.body, body...)
	return len(body), nil
}

// WriteHeader implements the http.ResponseWriter interface
func (r *responseRecorder) WriteHeader(statusCode int) {
	if r.wroteHeader {
		return
	}
	r.wroteHeader = true
	r.statusCode = statusCode
}
