package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/Bitlatte/mosaic/internal/logging"
	"github.com/Bitlatte/mosaic/internal/server"
	"github.com/Bitlatte/mosaic/internal/site"
	"github.com/Bitlatte/mosaic/internal/store"
)

const reloadDebounce = 500 * time.Millisecond

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the site and reloads it when files change",
	Long: `The serve command loads your content, types and layouts, then starts a web
server. It watches the content and layouts directories and the types file and
reloads the site when they change. Layout and default page selections made
through the menus are kept in the configured database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := logging.FromContext(ctx)
		if serveAddr != "" {
			appConfig.Addr = serveAddr
		}

		var sel site.Selections
		if appConfig.Database != "" {
			db, err := store.Open(ctx, appConfig.Database)
			if err != nil {
				return err
			}
			defer db.Close()
			sel = db
		}

		st, err := site.Load(ctx, appConfig, sel, logger)
		if err != nil {
			return err
		}
		srv := server.New(st, logger)

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer watcher.Close()

		reload := func() {
			next, err := site.Load(ctx, appConfig, sel, logger)
			if err != nil {
				logger.Error("reload failed, keeping previous site", "err", err)
				return
			}
			srv.Swap(next)
			logger.Info("site reloaded", "items", next.Content.Len())
		}
		go watch(ctx, watcher, logger, reload)

		for _, dir := range []string{appConfig.ContentDir, appConfig.LayoutsDir} {
			addTree(watcher, dir, logger)
		}
		if appConfig.TypesFile != "" {
			if err := watcher.Add(appConfig.TypesFile); err != nil {
				logger.Warn("not watching types file", "file", appConfig.TypesFile, "err", err)
			}
		}

		logger.Info("serving site", "url", appConfig.SiteURL(), "addr", appConfig.Addr, "items", st.Content.Len())
		return srv.Run(ctx, appConfig.Addr)
	},
}

// watch calls reload once changes have settled for reloadDebounce.
func watch(ctx context.Context, watcher *fsnotify.Watcher, logger *log.Logger, reload func()) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("change detected", "path", event.Name, "op", event.Op.String())

			// New directories are not watched until added.
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				addTree(watcher, event.Name, logger)
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, reload)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error", "err", err)
		}
	}
}

// addTree watches root and every directory below it.
func addTree(watcher *fsnotify.Watcher, root string, logger *log.Logger) {
	if !isDir(root) {
		logger.Debug("not watching missing directory", "dir", root)
		return
	}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			logger.Warn("error walking", "path", path, "err", err)
			return nil
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				logger.Warn("failed to watch", "dir", path, "err", err)
			}
		}
		return nil
	})
	if err != nil {
		logger.Warn("error walking", "dir", root, "err", err)
	}
}

func isDir(path string) bool {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fileInfo.IsDir()
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "address to listen on (overrides addr in the config)")
	rootCmd.AddCommand(serveCmd)
}
