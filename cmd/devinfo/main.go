// devinfo prints the capabilities of the compute devices and platforms available.
//
// By default it selects one device with the automatic policy, and prints its device, platform, queue and
// context information. Backends are configured with the environment variable DEVINFO_BACKENDS, e.g.:
//
//	DEVINFO_BACKENDS=host,static:lab.yaml devinfo -device=gpu -table
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/gomlx/devinfo/backends"
	_ "github.com/gomlx/devinfo/backends/default"
	"github.com/gomlx/devinfo/compute"
	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/must"
	"github.com/muesli/termenv"
	"k8s.io/klog/v2"
)

var (
	flagDevice = flag.String("device", "automatic",
		"Device selection policy: automatic, cpu, gpu, accelerator or host.")
	flagAll   = flag.Bool("all", false, "Report every device of every platform, instead of selecting one with -device.")
	flagTable = flag.Bool("table", false, "Render the reports as tables.")
	flagHuman = flag.Bool("human", false, "Also display sizes in bytes in human-readable form (e.g.: 24 GiB).")
	flagColor = flag.Bool("color", true, "Use colors in tables, if the output is a terminal.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if len(flag.Args()) > 0 {
		klog.Errorf("Unexpected arguments %q. See 'devinfo -help'.", flag.Args())
		os.Exit(1)
	}

	output := termenv.NewOutput(os.Stdout)
	if *flagColor {
		lipgloss.SetColorProfile(output.Profile)
	} else {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	err := exceptions.TryCatch[error](func() {
		r := must.M1(compute.Default())
		opts := reportOptions{table: *flagTable, human: *flagHuman}
		if *flagAll {
			for _, dev := range r.Devices() {
				ctx := must.M1(compute.NewContext(dev))
				queue := must.M1(compute.NewQueue(ctx, dev))
				must.M(writeReport(os.Stdout, dev, queue, opts))
			}
			return
		}
		policy := must.M1(compute.PolicyString(*flagDevice))
		queue := must.M1(r.NewQueueForPolicy(policy))
		must.M(writeReport(os.Stdout, queue.Device(), queue, opts))
	})
	if err != nil {
		klog.Errorf("devinfo failed: %+v", err)
		fmt.Fprintf(os.Stderr, "Configured backends with %s=%q\n", backends.DEVINFO_BACKENDS, os.Getenv(backends.DEVINFO_BACKENDS))
		os.Exit(1)
	}
}
