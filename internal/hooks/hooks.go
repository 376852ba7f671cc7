// Package hooks runs user scripts at well-known points of the price tracking
// workflow. Scripts live in <hooks_dir>/<hook-point>/ and run in name order.
package hooks

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cristianoliveira/appwish/internal/colors"
	"github.com/cristianoliveira/appwish/internal/config"
)

// Hook points.
const (
	PostAdd     = "post-add"
	PreRemove   = "pre-remove"
	PriceDrop   = "price-drop"
	PostRefresh = "post-refresh"
)

// Failure modes.
const (
	FailureIgnore = "ignore"
	FailureWarn   = "warn"
	FailureAbort  = "abort"
)

var (
	asyncPending      sync.WaitGroup
	asyncPendingMu    sync.Mutex
	asyncPendingCount int
)

// Init ensures the hooks directory exists.
func Init() error {
	dir := hooksDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create hooks directory %s: %w", dir, err)
	}
	return nil
}

func hooksDir() string {
	if dir := config.Get("hooks_dir", ""); dir != "" {
		return dir
	}
	return filepath.Join(config.Get("config_dir", os.TempDir()), "hooks")
}

// enabled checks the global switch and the per-point override
// APPWISH_HOOKS_ENABLED_<POINT> (post-refresh -> POST_REFRESH).
func enabled(hookPoint string) bool {
	if !config.GetBool("hooks_enabled", true) {
		return false
	}
	key := config.EnvPrefix + "HOOKS_ENABLED_" + strings.ToUpper(strings.ReplaceAll(hookPoint, "-", "_"))
	switch strings.ToLower(os.Getenv(key)) {
	case "0", "false", "no", "off":
		return false
	}
	return true
}

func failureMode() string {
	return config.Get("hooks_failure_mode", FailureWarn)
}

func binaryPath() string {
	if exe, err := os.Executable(); err == nil {
		return exe
	}
	if len(os.Args) > 0 && os.Args[0] != "" {
		if filepath.IsAbs(os.Args[0]) {
			return os.Args[0]
		}
		if path, err := exec.LookPath(os.Args[0]); err == nil {
			return path
		}
	}
	return ""
}

func buildEnv(hookPoint string, envVars []string) []string {
	envMap := map[string]string{
		"HOOK_POINT":     hookPoint,
		"HOOK_TIMESTAMP": time.Now().Format(time.RFC3339),
	}
	envMap[config.EnvPrefix+"HOOKS_FAILURE_MODE"] = failureMode()
	if bin := binaryPath(); bin != "" {
		envMap[config.EnvPrefix+"BINARY"] = bin
	}
	for _, v := range envVars {
		if k, val, ok := strings.Cut(v, "="); ok {
			envMap[k] = val
		}
	}
	env := os.Environ()
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+envMap[k])
	}
	return env
}

// scripts returns the executable files for hookPoint sorted by name.
func scripts(hookPoint string) []string {
	hookDir := filepath.Join(hooksDir(), hookPoint)
	entries, err := os.ReadDir(hookDir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.Mode()&0111 == 0 {
			continue
		}
		out = append(out, filepath.Join(hookDir, e.Name()))
	}
	sort.Strings(out)
	return out
}

// Run executes hooks for a hook point with KEY=VALUE environment variables.
// In abort mode the first failing script stops the run and its error is
// returned; other modes never return an error.
func Run(hookPoint string, envVars ...string) error {
	if !enabled(hookPoint) {
		return nil
	}
	paths := scripts(hookPoint)
	if len(paths) == 0 {
		return nil
	}
	colors.Debug(fmt.Sprintf("Running %s hooks (%d script(s))", hookPoint, len(paths)))

	env := buildEnv(hookPoint, envVars)
	mode := failureMode()
	async := config.GetBool("hooks_async", false)
	maxAsync := config.GetInt("max_hooks", 10)

	for _, path := range paths {
		name := filepath.Base(path)
		if !async {
			if err := runSync(path, name, env, mode); err != nil {
				return err
			}
			continue
		}
		asyncPendingMu.Lock()
		if asyncPendingCount >= maxAsync {
			asyncPendingMu.Unlock()
			colors.Warning(fmt.Sprintf("too many async hooks pending (max: %d), skipping %s", maxAsync, name))
			continue
		}
		asyncPendingCount++
		asyncPending.Add(1)
		asyncPendingMu.Unlock()
		go runAsync(path, name, env, mode)
	}
	return nil
}

func runSync(path, name string, env []string, mode string) error {
	start := time.Now()
	cmd := exec.Command(path)
	cmd.Env = env
	output, err := cmd.CombinedOutput()
	if len(output) > 0 {
		colors.Debug(fmt.Sprintf("hook %s output: %s", name, strings.TrimSpace(string(output))))
	}
	if err == nil {
		colors.Debug(fmt.Sprintf("hook %s completed in %.2fs", name, time.Since(start).Seconds()))
		return nil
	}
	switch mode {
	case FailureAbort:
		return fmt.Errorf("hook %s failed: %w, output: %s", name, err, strings.TrimSpace(string(output)))
	case FailureWarn:
		colors.Warning(fmt.Sprintf("hook %s failed: %v", name, err))
	}
	return nil
}

func runAsync(path, name string, env []string, mode string) {
	timeout := time.Duration(config.GetInt("hooks_async_timeout", 30)) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer func() {
		cancel()
		asyncPendingMu.Lock()
		asyncPendingCount--
		asyncPendingMu.Unlock()
		asyncPending.Done()
	}()

	start := time.Now()
	cmd := exec.CommandContext(ctx, path)
	cmd.Env = env
	cmd.WaitDelay = time.Second
	output, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		colors.Warning(fmt.Sprintf("async hook %s timed out after %.2fs", name, time.Since(start).Seconds()))
		return
	}
	if err != nil && mode != FailureIgnore {
		colors.Warning(fmt.Sprintf("async hook %s failed: %v, output: %s", name, err, strings.TrimSpace(string(output))))
		return
	}
	if err == nil {
		colors.Debug(fmt.Sprintf("async hook %s completed in %.2fs", name, time.Since(start).Seconds()))
	}
}

// PendingCount returns the number of async hooks still running.
func PendingCount() int {
	asyncPendingMu.Lock()
	defer asyncPendingMu.Unlock()
	return asyncPendingCount
}

// WaitForPendingHooks waits for all pending async hooks to complete.
func WaitForPendingHooks() {
	asyncPending.Wait()
}

// Shutdown gracefully shuts down the hooks subsystem.
func Shutdown() {
	WaitForPendingHooks()
}
