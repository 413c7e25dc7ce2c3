package whatsapprepo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/apple00071/onnrides-sub005/util/httpx"
)

type httpRepo struct {
	instanceID string
	token      string
	client     *http.Client
	baseURL    string
}

func NewHTTP(instanceID, token string) Repo {
	return &httpRepo{
		instanceID: instanceID,
		token:      token,
		client:     httpx.Client(),
		baseURL:    "https://api.ultramsg.com",
	}
}

func (r *httpRepo) Send(ctx context.Context, to, message string) error {
	form := url.Values{}
	form.Set("token", r.token)
	form.Set("to", to)
	form.Set("body", message)

	endpoint := fmt.Sprintf("%s/%s/messages/chat", r.baseURL, r.instanceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("ultramsg send failed: %s", resp.Status)
	}

	var out struct {
		Sent  string `json:"sent"`
		Error any    `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}
	if out.Error != nil {
		return fmt.Errorf("ultramsg send rejected: %v", out.Error)
	}
	return nil
}
