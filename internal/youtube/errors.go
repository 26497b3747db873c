package youtube

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"google.golang.org/api/googleapi"
)

// Category is the closed set of user-facing error kinds assigned by the
// translator.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryQuota
	CategoryAuth
	CategoryNetwork
	CategoryNotFound
	CategoryValidation
)

// Localized user-facing messages.
const (
	msgQuota      = "YouTube API の1日あたりのリクエスト制限（クォータ）を超過しました。この制限は毎日太平洋標準時（PST）の午前0時にリセットされます。"
	msgAuth       = "YouTube API Keyが無効です。設定画面から正しいAPIキーを設定してください。"
	msgNetwork    = "ネットワーク接続エラーが発生しました。インターネット接続を確認して再試行してください。"
	msgNotFound   = "指定されたチャンネルが見つかりません。URLが正しいか、チャンネルが非公開になっていないか確認してください。"
	msgUnknownFmt = "APIリクエスト中にエラーが発生しました: %s"

	// MsgAPIKeyRequired is returned before any network call when the key is
	// missing or blank.
	MsgAPIKeyRequired      = "YouTube API Keyが必要です"
	MsgChannelURLRequired  = "チャンネルURLが必要です"
	MsgChannelNotFound     = "チャンネルが見つかりませんでした。URLが正しいか確認してください。"
	MsgInvalidChannelURL   = "有効なYouTubeチャンネルURLを入力してください（例: https://www.youtube.com/@username）"
	MsgNoUploadsPlaylist   = "アップロードプレイリストが見つかりません"
	MsgChannelIDRequired   = "チャンネルIDが必要です"
	MsgStatsNoVideos       = "統計情報の計算に必要な動画データがありません"
	MsgPasswordRequired    = "パスワードが必要です"
	MsgPasswordIncorrect   = "パスワードが正しくありません"
	MsgExportDataRequired  = "チャンネル情報と動画データが必要です"
	MsgVideoFetchFailed    = "動画情報の取得中にエラーが発生しました"
	MsgChannelFetchFailed  = "チャンネル情報の取得中にエラーが発生しました"
	MsgChannelIDFailed     = "チャンネルIDの取得中にエラーが発生しました"
	MsgKeyValidationFailed = "API Keyの検証中にエラーが発生しました"
)

// APIError is the structured failure every fetcher returns across its
// boundary: a category plus a localized, user-facing message.
type APIError struct {
	Category Category
	Message  string
	Err      error
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return e.Err }

// NewValidationError builds a validation failure rejected before any network
// attempt.
func NewValidationError(msg string) *APIError {
	return &APIError{Category: CategoryValidation, Message: msg}
}

// NewNotFoundError builds a not-found failure with a specific message.
func NewNotFoundError(msg string) *APIError {
	return &APIError{Category: CategoryNotFound, Message: msg}
}

// ErrAPIKeyRequired is the shared missing-key validation failure.
var ErrAPIKeyRequired = NewValidationError(MsgAPIKeyRequired)

// Classify maps a raw upstream error to an APIError. Structured
// googleapi.Error reason codes are checked first; free-text substring
// heuristics are the documented best-effort fallback.
func Classify(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if cat, ok := classifyReasons(gerr); ok {
			return &APIError{Category: cat, Message: categoryMessage(cat, gerr.Message), Err: err}
		}
		if gerr.Code == 404 {
			return &APIError{Category: CategoryNotFound, Message: msgNotFound, Err: err}
		}
		if gerr.Code == 400 || gerr.Code == 401 {
			return &APIError{Category: CategoryAuth, Message: msgAuth, Err: err}
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &APIError{Category: CategoryNetwork, Message: msgNetwork, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &APIError{Category: CategoryNetwork, Message: msgNetwork, Err: err}
	}

	cat := classifyMessage(err.Error())
	return &APIError{Category: cat, Message: categoryMessage(cat, err.Error()), Err: err}
}

// Translate returns the localized message for any fetch error.
func Translate(err error) string {
	if err == nil {
		return ""
	}
	return Classify(err).Message
}

func classifyReasons(gerr *googleapi.Error) (Category, bool) {
	for _, item := range gerr.Errors {
		switch item.Reason {
		case "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded", "userRateLimitExceeded":
			return CategoryQuota, true
		case "keyInvalid", "keyExpired", "ipRefererBlocked", "accessNotConfigured":
			return CategoryAuth, true
		case "notFound", "channelNotFound", "playlistNotFound", "videoNotFound":
			return CategoryNotFound, true
		}
	}
	return CategoryUnknown, false
}

// classifyMessage is the free-text fallback, mirroring the substrings the
// YouTube API is known to emit.
func classifyMessage(msg string) Category {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "quota") || strings.Contains(msg, "dailyLimitExceeded"):
		return CategoryQuota
	case strings.Contains(lower, "auth") || strings.Contains(msg, "invalid_key") || strings.Contains(msg, "API key"):
		return CategoryAuth
	case strings.Contains(lower, "network") || strings.Contains(lower, "timeout") || strings.Contains(lower, "connect"):
		return CategoryNetwork
	case strings.Contains(lower, "not found") || strings.Contains(msg, "404"):
		return CategoryNotFound
	default:
		return CategoryUnknown
	}
}

func categoryMessage(cat Category, raw string) string {
	switch cat {
	case CategoryQuota:
		return msgQuota
	case CategoryAuth:
		return msgAuth
	case CategoryNetwork:
		return msgNetwork
	case CategoryNotFound:
		return msgNotFound
	default:
		return fmt.Sprintf(msgUnknownFmt, raw)
	}
}
