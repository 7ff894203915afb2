// Package main provides the Gozoo model zoo CLI.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gozoo-ml/gozoo/backend/cpu"
	"github.com/gozoo-ml/gozoo/nn"
	"github.com/gozoo-ml/gozoo/zoo/senet"
	"github.com/gozoo-ml/gozoo/zoo/shufflenet"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Gozoo %s\n", version)
			return
		case "list":
			listModels()
			return
		case "summary":
			if len(os.Args) < 3 {
				fmt.Fprintln(os.Stderr, "usage: gozoo summary <model>")
				os.Exit(1)
			}
			if err := summarize(os.Args[2], os.Args[3:]); err != nil {
				fmt.Fprintf(os.Stderr, "gozoo: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	fmt.Println("Gozoo - Convolutional Model Zoo for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version                  Show version")
	fmt.Println("  list                     List available architectures")
	fmt.Println("  summary <model> [args]   Print a model summary with parameter count")
	fmt.Println("")
	fmt.Println("Models:")
	fmt.Println("  se-resnet50")
	fmt.Println("  shufflenet [groups]      groups: 1, 2 (default), 3, 4 or 8")
}

func listModels() {
	fmt.Println("se-resnet50    SE-ResNet-50: squeeze-excite residual network")
	fmt.Println("shufflenet     ShuffleNet v1: channel-shuffle grouped-convolution network")
}

func summarize(model string, args []string) error {
	backend := cpu.New()

	switch model {
	case "se-resnet50":
		m := senet.New(senet.SEResNet50(), backend)
		fmt.Println(m)
		fmt.Printf("Parameters: %d\n", nn.NumParameters[*cpu.Backend](m))
	case "shufflenet":
		groups := 2
		if len(args) > 0 {
			g, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid group count %q", args[0])
			}
			groups = g
		}
		m := shufflenet.New(shufflenet.ByGroups(groups), backend)
		fmt.Println(m)
		fmt.Printf("Parameters: %d\n", nn.NumParameters[*cpu.Backend](m))
	default:
		return fmt.Errorf("unknown model %q (try: gozoo list)", model)
	}
	return nil
}
