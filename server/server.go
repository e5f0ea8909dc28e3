// server/server.go
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/atgs/landing/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/acme/autocert"
)

// errInsecureKey marks a key file readable by group or others.
var errInsecureKey = errors.New("tls key file permissions too open")

// WithShutdownSignals derives a context that is canceled on SIGINT or SIGTERM.
func WithShutdownSignals(parent context.Context, logger *zap.Logger) (context.Context, context.CancelFunc) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			logger.Info("shutdown signal received", zap.Stringer("signal", sig))
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// ListenAndServe serves handler according to cfg until ctx is canceled.
//
// Plain HTTP listens on http_port. With use_https the page is served on
// https_port and port 80 answers ACME http-01 challenges (Let's Encrypt) or
// redirects to HTTPS (manual certificates).
func ListenAndServe(ctx context.Context, cfg *config.CoreConfig, handler http.Handler, logger *zap.Logger) error {
	if cfg == nil || handler == nil {
		return errors.New("server: nil config or handler")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	errLog := stdLogger(logger)

	srv := newServer(cfg, handler, errLog)

	if !cfg.HTTP.UseHTTPS {
		ln, err := net.Listen("tcp", ":"+strconv.Itoa(cfg.HTTP.HTTPPort))
		if err != nil {
			return fmt.Errorf("listen http: %w", err)
		}
		logger.Info("http server listening", zap.String("addr", ln.Addr().String()))
		return serve(ctx, srv, ln, nil, cfg.HTTP.ShutdownTimeout, logger)
	}

	tlsCfg, auxHandler, err := tlsSetup(ctx, cfg, logger)
	if err != nil {
		return err
	}
	srv.TLSConfig = tlsCfg

	aux := newServer(cfg, auxHandler, errLog)
	aux.Addr = ":80"

	ln, err := net.Listen("tcp", ":"+strconv.Itoa(cfg.HTTP.HTTPSPort))
	if err != nil {
		return fmt.Errorf("listen https: %w", err)
	}
	logger.Info("https server listening",
		zap.String("addr", ln.Addr().String()),
		zap.Bool("lets_encrypt", cfg.TLS.UseLetsEncrypt),
		zap.String("domain", cfg.TLS.Domain))
	return serve(ctx, srv, tls.NewListener(ln, tlsCfg), aux, cfg.HTTP.ShutdownTimeout, logger)
}

func newServer(cfg *config.CoreConfig, h http.Handler, errLog *log.Logger) *http.Server {
	return &http.Server{
		Handler:           h,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		ErrorLog:          errLog,
	}
}

// stdLogger routes net/http's internal errors into zap at warn.
func stdLogger(logger *zap.Logger) *log.Logger {
	l, err := zap.NewStdLogAt(logger, zapcore.WarnLevel)
	if err != nil {
		return nil
	}
	return l
}

// tlsSetup returns the TLS config for the primary listener and the handler
// for the port-80 companion server.
func tlsSetup(ctx context.Context, cfg *config.CoreConfig, logger *zap.Logger) (*tls.Config, http.Handler, error) {
	if cfg.TLS.UseLetsEncrypt {
		m := &autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist(cfg.TLS.Domain),
			Cache:      autocert.DirCache(cfg.TLS.LetsEncryptCacheDir),
			Email:      cfg.TLS.LetsEncryptEmail,
		}
		// The challenge responder must be up before the first certificate request.
		go func() {
			if err := waitForCert(ctx, m, cfg.TLS.Domain, time.Minute); err != nil {
				logger.Warn("certificate not ready yet; early https requests may fail", zap.Error(err))
			}
		}()
		return &tls.Config{MinVersion: tls.VersionTLS12, GetCertificate: m.GetCertificate},
			m.HTTPHandler(redirectHandler()), nil
	}

	if err := checkTLSFiles(cfg.TLS.CertFile, cfg.TLS.KeyFile); err != nil {
		if !errors.Is(err, errInsecureKey) || cfg.Env == "prod" {
			return nil, nil, err
		}
		logger.Warn("tls key file is readable by others (refused in prod)", zap.Error(err))
	}
	cert, err := tls.LoadX509KeyPair(cfg.TLS.CertFile, cfg.TLS.KeyFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load tls key pair: %w", err)
	}
	return &tls.Config{MinVersion: tls.VersionTLS12, Certificates: []tls.Certificate{cert}},
		redirectHandler(), nil
}

// serve runs srv on ln, and aux (if non-nil) on its own address, until ctx
// ends or either server fails. Both are shut down before it returns.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, aux *http.Server, grace time.Duration, logger *zap.Logger) error {
	primaryErr := make(chan error, 1)
	go func() { primaryErr <- srv.Serve(ln) }()

	var auxErr chan error
	if aux != nil {
		auxErr = make(chan error, 1)
		go func() { auxErr <- aux.ListenAndServe() }()
		logger.Info("port 80 companion listening", zap.String("addr", aux.Addr))
	}

	stop := func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		if aux != nil {
			_ = aux.Shutdown(shutdownCtx)
		}
		return srv.Shutdown(shutdownCtx)
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down", zap.Duration("grace", grace))
		if err := stop(); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("server stopped")
		return nil

	case err := <-primaryErr:
		_ = stop()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)

	case err := <-auxErr:
		_ = stop()
		return fmt.Errorf("port 80 server: %w", err)
	}
}

// redirectHandler sends every plain-HTTP request to the same host and path
// over HTTPS. Requests with a suspicious Host or target get a 400.
func redirectHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target := r.URL.RequestURI()
		if !validHost(r.Host) || hasControl(target) {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		http.Redirect(w, r, "https://"+r.Host+target, http.StatusMovedPermanently)
	})
}

func hasControl(s string) bool {
	for _, c := range s {
		if c < 0x20 || c == 0x7f {
			return true
		}
	}
	return false
}

// validHost accepts host, host:port, and bracketed IPv6 literals.
func validHost(host string) bool {
	if host == "" || hasControl(host) || strings.ContainsAny(host, " /\\@") {
		return false
	}
	name := host
	if h, port, err := net.SplitHostPort(host); err == nil {
		n, perr := strconv.Atoi(port)
		if perr != nil || n < 1 || n > 65535 {
			return false
		}
		name = h
		if strings.HasPrefix(host, "[") || strings.Contains(h, ":") {
			return net.ParseIP(stripZone(h)) != nil
		}
	} else if strings.HasPrefix(name, "[") {
		if !strings.HasSuffix(name, "]") {
			return false
		}
		return net.ParseIP(stripZone(name[1:len(name)-1])) != nil
	}
	return name != ""
}

func stripZone(ip string) string {
	if i := strings.IndexByte(ip, '%'); i >= 0 {
		return ip[:i]
	}
	return ip
}

// checkTLSFiles verifies both paths are regular files. On Unix it also
// reports errInsecureKey when the key is accessible to group or others.
func checkTLSFiles(certFile, keyFile string) error {
	for _, p := range []string{certFile, keyFile} {
		fi, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("tls file: %w", err)
		}
		if fi.IsDir() {
			return fmt.Errorf("tls file %s is a directory", p)
		}
	}
	if runtime.GOOS == "windows" {
		return nil
	}
	fi, _ := os.Stat(keyFile)
	if perm := fi.Mode().Perm(); perm&0o077 != 0 {
		return fmt.Errorf("%w: %s is %o, want 0600", errInsecureKey, keyFile, perm)
	}
	return nil
}

// waitForCert polls autocert once a second until a certificate for host is
// cached, ctx ends, or timeout passes.
func waitForCert(ctx context.Context, m *autocert.Manager, host string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	for {
		_, err := m.GetCertificate(&tls.ClientHelloInfo{ServerName: host})
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("certificate for %q: %w (last error: %v)", host, ctx.Err(), err)
		case <-tick.C:
		}
	}
}
