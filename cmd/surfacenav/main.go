package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pdrpinto/surfacenav"
	"github.com/pdrpinto/surfacenav/internal/cli"
	"github.com/pdrpinto/surfacenav/internal/config"
	"github.com/pdrpinto/surfacenav/internal/ctxlog"
	"github.com/pdrpinto/surfacenav/internal/gridstore"
	"github.com/pdrpinto/surfacenav/internal/scene"
	"github.com/pdrpinto/surfacenav/internal/snapshot"
	"github.com/pdrpinto/surfacenav/internal/vizserver"
	"github.com/pdrpinto/surfacenav/internal/watch"
)

// main is the entrypoint for the surfacenav command.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			stop()
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// run parses args and executes the selected command. Results go to outW and
// logs to logW.
func run(ctx context.Context, outW, logW io.Writer, args []string) error {
	command, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger := cli.NewLogger(command.LogLevel, command.LogFormat, logW)
	ctx = ctxlog.WithLogger(ctx, logger)

	switch command.Name {
	case cli.CommandBuild:
		return runBuild(ctx, outW, command.Build)
	case cli.CommandPath:
		return runPath(ctx, outW, command.Path)
	case cli.CommandServe:
		return runServe(ctx, command.Serve)
	}
	return &cli.ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q", command.Name)}
}

// loadScene reads a build file and indexes its scene.
func loadScene(path string) (config.Loaded, *scene.Scene, error) {
	loaded, err := config.Load(path)
	if err != nil {
		return config.Loaded{}, nil, err
	}
	sc, err := scene.New(loaded.File.Scene)
	if err != nil {
		return config.Loaded{}, nil, fmt.Errorf("%s: %w", path, err)
	}
	return loaded, sc, nil
}

func runBuild(ctx context.Context, outW io.Writer, args cli.BuildArgs) error {
	loaded, sc, err := loadScene(args.ConfigPath)
	if err != nil {
		return err
	}

	graph, result := surfacenav.Build(ctx, loaded.File.Region, sc.Query(), loaded.File.GraphOptions()...)
	snap := snapshot.FromGraph(snapshot.Header{
		Name:      loaded.File.Name,
		Digest:    loaded.Digest,
		CreatedAt: time.Now().UTC(),
		Region:    loaded.File.Region,
		Result:    result,
	}, graph)
	if err := snapshot.Write(args.OutPath, snap); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	ctxlog.FromContext(ctx).Info("Snapshot written.", "path", args.OutPath, "nodes", result.NodeCount)

	encoder := json.NewEncoder(outW)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func runPath(ctx context.Context, outW io.Writer, args cli.PathArgs) error {
	snap, err := snapshot.Read(args.GridPath)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	graph := snap.Graph()

	path, result, err := graph.FindPathResult(args.From, args.To)
	ctxlog.FromContext(ctx).Debug("Path query finished.", "expanded", result.ExpandedNodes, "error", err)
	if err != nil {
		fmt.Fprintf(outW, "no path: %v\n", err)
		return nil
	}
	for index, node := range path {
		fmt.Fprintf(outW, "%d\t%s\t%s\n", index, node.ID, node.Position)
	}
	fmt.Fprintf(outW, "cost\t%d\n", result.TotalCost)
	return nil
}

func runServe(ctx context.Context, args cli.ServeArgs) error {
	logger := ctxlog.FromContext(ctx)

	loaded, sc, err := loadScene(args.ConfigPath)
	if err != nil {
		return err
	}

	navigatorOptions := []surfacenav.NavigatorOption{surfacenav.WithGraphOptions(loaded.File.GraphOptions()...)}
	if args.CachePath != "" {
		store, err := gridstore.Open(args.CachePath)
		if err != nil {
			return fmt.Errorf("open grid cache: %w", err)
		}
		defer store.Close()
		navigatorOptions = append(navigatorOptions, surfacenav.WithGraphCache(store))
	}
	navigator := surfacenav.NewNavigator(navigatorOptions...)
	navigator.Rebuild(ctx, loaded.File.Region, sc.Query(), loaded.CacheKey())

	server, err := vizserver.NewServer(ctx, navigator, vizserver.WithMaxSteps(args.MaxSteps))
	if err != nil {
		return err
	}

	watcher, err := watch.NewWatcher(args.ConfigPath, watch.DefaultDebounce)
	if err != nil {
		return fmt.Errorf("watch %s: %w", args.ConfigPath, err)
	}
	defer watcher.Close()

	listener, err := net.Listen("tcp", args.Addr)
	if err != nil {
		return err
	}
	httpServer := &http.Server{Handler: server.Handler(), ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() { serveErr <- httpServer.Serve(listener) }()
	logger.Info("Visualiser listening.", "addr", listener.Addr().String())

	diagonal := loaded.File.DiagonalMoves
	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		case err := <-serveErr:
			return err
		case err, ok := <-watcher.Errors:
			if ok {
				logger.Warn("Build file watch error.", "error", err)
			}
		case _, ok := <-watcher.Events:
			if !ok {
				continue
			}
			reloaded, reloadedScene, err := loadScene(args.ConfigPath)
			if err != nil {
				logger.Warn("Build file rejected, keeping current grid.", "error", err)
				continue
			}
			if reloaded.File.DiagonalMoves != diagonal {
				logger.Warn("diagonal_moves changes take effect on restart.")
			}
			navigator.Rebuild(ctx, reloaded.File.Region, reloadedScene.Query(), reloaded.CacheKey())
			server.Broadcast()
		}
	}
}
