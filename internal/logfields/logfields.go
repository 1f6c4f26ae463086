package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRequestID  = "request_id"
	KeyMethod     = "method"
	KeyPath       = "path"
	KeyStatus     = "status"
	KeyMode       = "mode"
	KeyDatabaseID = "database_id"
	KeyPageID     = "page_id"
	KeySlug       = "slug"
	KeyTemplate   = "template"
	KeyBlocks     = "blocks"
	KeyDropped    = "dropped"
	KeyUserAgent  = "user_agent"
	KeyRemoteAddr = "remote_addr"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RequestID(id string) slog.Attr    { return slog.String(KeyRequestID, id) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func Mode(m string) slog.Attr          { return slog.String(KeyMode, m) }
func DatabaseID(id string) slog.Attr   { return slog.String(KeyDatabaseID, id) }
func PageID(id string) slog.Attr       { return slog.String(KeyPageID, id) }
func Slug(s string) slog.Attr          { return slog.String(KeySlug, s) }
func Template(name string) slog.Attr   { return slog.String(KeyTemplate, name) }
func Blocks(n int) slog.Attr           { return slog.Int(KeyBlocks, n) }
func Dropped(n int) slog.Attr          { return slog.Int(KeyDropped, n) }
func UserAgent(ua string) slog.Attr    { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(addr string) slog.Attr { return slog.String(KeyRemoteAddr, addr) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
