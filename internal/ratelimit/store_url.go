package ratelimit

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

const defaultStorePort = "6379"

type storeConnInfo struct {
	addr     string
	username string
	password string
	selectDB int
	useTLS   bool
}

// parseStoreURL: redis://, rediss://, valkey://, valkeys:// URL 또는 host[:port] 를 해석합니다.
func parseStoreURL(raw string) (storeConnInfo, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return storeConnInfo{}, errors.New("rate limit store url is empty")
	}
	if !strings.Contains(raw, "://") {
		return parseStoreAddr(raw)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return storeConnInfo{}, fmt.Errorf("parse url: %w", err)
	}

	var useTLS bool
	switch strings.ToLower(parsed.Scheme) {
	case "redis", "valkey":
	case "rediss", "valkeys":
		useTLS = true
	default:
		return storeConnInfo{}, fmt.Errorf("unsupported rate limit store scheme: %s", parsed.Scheme)
	}

	host := parsed.Hostname()
	if host == "" {
		return storeConnInfo{}, errors.New("rate limit store host missing")
	}
	port := parsed.Port()
	if port == "" {
		port = defaultStorePort
	}

	selectDB, err := parseSelectDB(parsed.Path)
	if err != nil {
		return storeConnInfo{}, err
	}

	info := storeConnInfo{
		addr:     net.JoinHostPort(host, port),
		selectDB: selectDB,
		useTLS:   useTLS,
	}
	if parsed.User != nil {
		info.username = parsed.User.Username()
		info.password, _ = parsed.User.Password()
	}
	return info, nil
}

func parseSelectDB(path string) (int, error) {
	path = strings.Trim(strings.TrimSpace(path), "/")
	if path == "" {
		return 0, nil
	}
	db, err := strconv.Atoi(path)
	if err != nil || db < 0 {
		return 0, fmt.Errorf("invalid rate limit store db: %q", path)
	}
	return db, nil
}

func parseStoreAddr(addr string) (storeConnInfo, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		var addrErr *net.AddrError
		if !errors.As(err, &addrErr) {
			return storeConnInfo{}, fmt.Errorf("invalid rate limit store address: %w", err)
		}
		switch addrErr.Err {
		case "missing port in address":
			host = strings.TrimSuffix(strings.TrimPrefix(addr, "["), "]")
			port = defaultStorePort
		case "too many colons in address":
			host = addr
			port = defaultStorePort
		default:
			return storeConnInfo{}, fmt.Errorf("invalid rate limit store address: %w", err)
		}
	}
	if strings.TrimSpace(host) == "" {
		return storeConnInfo{}, errors.New("rate limit store host missing")
	}
	return storeConnInfo{addr: net.JoinHostPort(host, port)}, nil
}
