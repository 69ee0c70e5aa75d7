package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/nativepass/internal/gpuprobe"
)

func newDevicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List Vulkan adapters a plugin could render on",
		RunE: func(cmd *cobra.Command, _ []string) error {
			adapters, err := gpuprobe.Vulkan()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, a := range adapters {
				mark := " "
				if a.Preferred {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %d: %s (%v)\n", mark, i, a.Name, a.DeviceType)
			}
			return nil
		},
	}
}
