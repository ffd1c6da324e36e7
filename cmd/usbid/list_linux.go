//go:build linux

package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/ardnew/usbid/pkg/linux/lsusb"
)

func runList(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var src sourceFlags
	src.register(fs)
	root := fs.String("root", lsusb.DefaultRoot, "sysfs USB device directory")
	tree := fs.Bool("t", false, "also list each device's interfaces")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := src.applyLog(stderr); err != nil {
		return err
	}

	db, err := src.open()
	if err != nil {
		return err
	}
	devices, err := lsusb.Scan(*root)
	if err != nil {
		return err
	}

	for _, d := range devices {
		fmt.Fprintln(stdout, lsusb.Describe(db, d))
		if *tree {
			for _, i := range d.Interfaces {
				fmt.Fprintf(stdout, "    %s\n", lsusb.DescribeInterface(db, d, i))
			}
		}
	}
	return nil
}
