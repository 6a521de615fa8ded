package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	telegramAPIBase = "https://api.telegram.org"

	// initData older than this is rejected, per Mini App guidance.
	initDataMaxAge = 24 * time.Hour

	botInfoCacheTTL = 5 * time.Minute
)

var (
	ErrInvalidInitData = errors.New("telegram init data failed validation")
	ErrInitDataExpired = errors.New("telegram init data is too old")
)

// TelegramInitUser is the user payload embedded in Mini App init data.
type TelegramInitUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Username     string `json:"username"`
	LanguageCode string `json:"language_code"`
	PhotoURL     string `json:"photo_url"`
}

type BotInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type TelegramClient interface {
	ValidateInitData(initData string) (*TelegramInitUser, error)
	GetBotInfo(ctx context.Context) (*BotInfo, error)
	NotifyOrderCreated(ctx context.Context, telegramID int64, text string) error
}

type telegramService struct {
	botToken string
	apiBase  string
	client   *http.Client

	botInfoMutex    sync.RWMutex
	cachedBotInfo   *BotInfo
	lastBotInfoSync time.Time
}

func NewTelegramService(botToken string) TelegramClient {
	return &telegramService{
		botToken: botToken,
		apiBase:  telegramAPIBase,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// ValidateInitData checks the Mini App init data signature: the secret key
// is HMAC-SHA256("WebAppData", botToken) and the hash covers the sorted
// key=value pairs joined by newlines, hash excluded.
func (s *telegramService) ValidateInitData(initData string) (*TelegramInitUser, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, fmt.Errorf("malformed init data: %w", err)
	}

	gotHash := values.Get("hash")
	if gotHash == "" {
		return nil, ErrInvalidInitData
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}
	dataCheckString := strings.Join(pairs, "\n")

	secretMac := hmac.New(sha256.New, []byte("WebAppData"))
	secretMac.Write([]byte(s.botToken))
	secret := secretMac.Sum(nil)

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(dataCheckString))
	wantHash := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(wantHash), []byte(gotHash)) {
		return nil, ErrInvalidInitData
	}

	if authDate := values.Get("auth_date"); authDate != "" {
		ts, err := strconv.ParseInt(authDate, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed auth_date: %w", err)
		}
		if time.Since(time.Unix(ts, 0)) > initDataMaxAge {
			return nil, ErrInitDataExpired
		}
	}

	var user TelegramInitUser
	if raw := values.Get("user"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			return nil, fmt.Errorf("malformed user payload: %w", err)
		}
	}
	if user.ID == 0 {
		return nil, ErrInvalidInitData
	}

	return &user, nil
}

// GetBotInfo returns the bot identity, cached for five minutes so the auth
// path does not hit the Bot API on every request.
func (s *telegramService) GetBotInfo(ctx context.Context) (*BotInfo, error) {
	s.botInfoMutex.RLock()
	if s.cachedBotInfo != nil && time.Since(s.lastBotInfoSync) < botInfoCacheTTL {
		info := *s.cachedBotInfo
		s.botInfoMutex.RUnlock()
		return &info, nil
	}
	s.botInfoMutex.RUnlock()

	respBody, err := s.doRequest(ctx, http.MethodGet, "/getMe", nil)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		OK     bool    `json:"ok"`
		Result BotInfo `json:"result"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse getMe response: %w", err)
	}
	if !parsed.OK {
		return nil, fmt.Errorf("telegram getMe returned not ok")
	}

	s.botInfoMutex.Lock()
	s.cachedBotInfo = &parsed.Result
	s.lastBotInfoSync = time.Now()
	s.botInfoMutex.Unlock()

	return &parsed.Result, nil
}

func (s *telegramService) NotifyOrderCreated(ctx context.Context, telegramID int64, text string) error {
	payload, err := json.Marshal(map[string]interface{}{
		"chat_id": telegramID,
		"text":    text,
	})
	if err != nil {
		return err
	}
	_, err = s.doRequest(ctx, http.MethodPost, "/sendMessage", bytes.NewBuffer(payload))
	return err
}

func (s *telegramService) doRequest(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	fullURL := fmt.Sprintf("%s/bot%s%s", s.apiBase, s.botToken, path)

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read telegram response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
