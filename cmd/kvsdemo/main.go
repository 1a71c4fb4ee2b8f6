package main

import (
	"flag"
	"fmt"
	"os"

	"kvs"
	kvslog "kvs/utils/log"
)

func main() {
	dir := flag.String("dir", "./kvsdemo-data", "working directory for the store")
	instanceId := flag.Uint("instance", 0, "instance id within dir")
	verbose := flag.Bool("v", false, "enable debug logging")
	logFile := flag.String("log-file", "", "base path for rotated info/error log files; empty disables file logging")
	logMaxSizeMB := flag.Int("log-max-size-mb", 10, "rotate a log file once it reaches this size")
	logMaxBackups := flag.Int("log-max-backups", 3, "number of rotated log files to keep")
	logMaxAgeDays := flag.Int("log-max-age-days", 28, "days to retain a rotated log file")
	flag.Parse()

	switch {
	case *logFile != "":
		kvslog.InitLogger(*logFile, *logMaxSizeMB, *logMaxBackups, *logMaxAgeDays, false)
		defer kvslog.Sync()
	case *verbose:
		kvslog.DefaultLogger()
	}

	store, err := kvs.NewBuilder(kvs.InstanceId(*instanceId)).
		Dir(*dir).
		Logger(kvslog.Logger).
		Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, "open failed:", err)
		os.Exit(1)
	}

	store.SetValue("greeting", kvs.Str("hello"))
	store.SetValue("visits", kvs.Int32(1))

	if n, err := kvs.GetValueAs[int32](store, "visits"); err == nil {
		store.SetValue("visits", kvs.Int32(n+1))
	}

	if err := store.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, "flush failed:", err)
		os.Exit(1)
	}

	fmt.Println("keys:", store.GetAllKeys())
	fmt.Println("snapshot count:", mustCount(store))
}

func mustCount(store kvs.Instance) int {
	n, err := store.SnapshotCount()
	if err != nil {
		return -1
	}
	return n
}
