// listctl is a small admin CLI for the subscriber list API.
//
// Usage:
//
//	listctl -mode subscribe -email alice@example.com [-meta source=manual]
//	listctl -mode verify -token <verification-token>
//	listctl -mode stats
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

var (
	modeFlag  = flag.String("mode", "", "Execution mode: subscribe|verify|stats")
	urlFlag   = flag.String("url", "http://localhost:8080", "Base URL of the listkeeper API")
	emailFlag = flag.String("email", "", "Email for subscribe")
	tokenFlag = flag.String("token", "", "Verification token for verify")
	metaFlag  = flag.String("meta", "", "Comma-separated key=value metadata pairs for subscribe")
)

const (
	modeSubscribe = "subscribe"
	modeVerify    = "verify"
	modeStats     = "stats"
)

func main() {
	flag.Parse()

	client := &apiClient{
		base: strings.TrimRight(*urlFlag, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}

	var err error
	switch *modeFlag {
	case modeSubscribe:
		if *emailFlag == "" {
			err = fmt.Errorf("-email is required for subscribe")
			break
		}
		err = client.subscribe(*emailFlag, parseMeta(*metaFlag))
	case modeVerify:
		if *tokenFlag == "" {
			err = fmt.Errorf("-token is required for verify")
			break
		}
		err = client.verify(*tokenFlag)
	case modeStats:
		err = client.stats(os.Stdout)
	default:
		flag.PrintDefaults()
		err = fmt.Errorf("unknown mode %q", *modeFlag)
	}

	if err != nil {
		log.Fatal(err)
	}
}

// parseMeta turns "a=1,b=2" into a metadata map. Malformed pairs are
// skipped rather than fatal; the server does not care about shape.
func parseMeta(s string) map[string]any {
	meta := map[string]any{}
	for _, pair := range strings.Split(s, ",") {
		if k, v, ok := strings.Cut(strings.TrimSpace(pair), "="); ok && k != "" {
			meta[k] = v
		}
	}
	return meta
}

type apiClient struct {
	base string
	http *http.Client
}

func (c *apiClient) subscribe(email string, meta map[string]any) error {
	payload, err := json.Marshal(map[string]any{"email": email, "metadata": meta})
	if err != nil {
		return err
	}

	resp, err := c.http.Post(c.base+"/subscribe", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("subscribe request failed: %w", err)
	}
	defer resp.Body.Close()

	return report(resp)
}

func (c *apiClient) verify(token string) error {
	resp, err := c.http.Get(c.base + "/verify/" + token)
	if err != nil {
		return fmt.Errorf("verify request failed: %w", err)
	}
	defer resp.Body.Close()

	return report(resp)
}

func (c *apiClient) stats(w io.Writer) error {
	resp, err := c.http.Get(c.base + "/subscribers/stats")
	if err != nil {
		return fmt.Errorf("stats request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stats returned %s", resp.Status)
	}

	var stats struct {
		Total       int       `json:"total"`
		Active      int       `json:"active"`
		Unverified  int       `json:"unverified"`
		GeneratedAt time.Time `json:"generated_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return fmt.Errorf("decoding stats: %w", err)
	}

	fmt.Fprintf(w, "total:      %d\n", stats.Total)
	fmt.Fprintf(w, "active:     %d\n", stats.Active)
	fmt.Fprintf(w, "unverified: %d\n", stats.Unverified)
	fmt.Fprintf(w, "generated:  %s\n", stats.GeneratedAt.Format(time.RFC3339))
	return nil
}

// report prints the server's message or error envelope and converts
// non-2xx responses into a non-zero exit.
func report(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.Unmarshal(body, &envelope)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		fmt.Println(envelope.Message)
		return nil
	}
	if envelope.Error != "" {
		return fmt.Errorf("%s: %s", resp.Status, envelope.Error)
	}
	return fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(body)))
}
