// Command xtree inserts keys into a BST, AVL or red-black tree and
// prints the tree after every insertion.
//
//	xtree -mode avl -keys 10,20,30
//	xtree -mode redblack < keys.txt
//	xtree -compare -keys 1,2,3,4,5,6,7
//	xtree -follow keys.txt
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/automaxprocs/maxprocs"
)

func main() {
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))

	cfg, err := parseConfig(os.Args[1:], os.Getenv, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	app := newApp(cfg, streams{in: os.Stdin, out: os.Stdout})
	if err = app.Err(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	startCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err = app.Start(startCtx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Wait also returns on SIGINT and SIGTERM.
	sig := <-app.Wait()
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer stopCancel()
	if err = app.Stop(stopCtx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		if sig.ExitCode == 0 {
			sig.ExitCode = 1
		}
	}
	if sig.ExitCode != 0 {
		os.Exit(sig.ExitCode)
	}
}
