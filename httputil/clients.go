package httputil

import (
	"net/http"
	"time"
)

type Clients struct {
	API *http.Client // hosted collection REST endpoint
}

// NewClients builds clients with a bounded timeout. A non-positive timeout falls back
// to 30s.
func NewClients(timeout time.Duration) *Clients {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 4
	transport.ResponseHeaderTimeout = timeout

	return &Clients{
		API: &http.Client{Timeout: timeout, Transport: transport},
	}
}
