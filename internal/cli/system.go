package cli

import (
	"fmt"
	"os"
	"strconv"

	"apttool/internal/config"
	"apttool/internal/executor"
	"apttool/internal/ui"
	"apttool/pkg/manager/detector"

	"github.com/spf13/cobra"
)

var systemCmd = &cobra.Command{
	Use:   "system",
	Short: "Show system information",
	Long: `Display the detected distribution, the dpkg architectures and
the size of the package database.`,
	Args: cobra.NoArgs,
	RunE: runSystem,
}

// systemReport is what the system command prints.
type systemReport struct {
	detector.SystemInfo `yaml:",inline"`

	DebianFamily bool   `json:"debian_family" yaml:"debian_family"`
	NativeArch   string `json:"native_arch" yaml:"native_arch"`
	MultiArch    bool   `json:"multi_arch" yaml:"multi_arch"`
	RoughSize    int    `json:"rough_size" yaml:"rough_size"`
	Frontend     string `json:"frontend" yaml:"frontend"`
	Available    bool   `json:"frontend_available" yaml:"frontend_available"`
	CanElevate   bool   `json:"can_elevate" yaml:"can_elevate"`
	ConfigPath   string `json:"config_path" yaml:"config_path"`
	HistoryPath  string `json:"history_path" yaml:"history_path"`
}

func runSystem(cmd *cobra.Command, args []string) error {
	sysInfo, err := detector.Detect()
	if err != nil {
		ui.WarningMsg("System detection: %v", err)
	}

	report := systemReport{
		SystemInfo:   *sysInfo,
		DebianFamily: sysInfo.IsDebianFamily(),
		Frontend:     apt.Binary(),
		Available:    apt.IsAvailable(),
		CanElevate:   executor.CanElevate(),
		ConfigPath:   config.ConfigPath(),
		HistoryPath:  config.HistoryPath(),
	}
	if cfgFile != "" {
		report.ConfigPath = cfgFile
	}

	// PreOpen is enough for the architecture and the estimate.
	if size, err := cat.PreOpen(cmd.Context()); err != nil {
		ui.WarningMsg("Package database: %v", err)
	} else {
		report.RoughSize = size
		report.NativeArch = cat.NativeArch()
		report.MultiArch = cat.MultiArch()
		defer cat.Close()
	}

	if structured() {
		return encode(report)
	}
	return printSystem(report)
}

func printSystem(r systemReport) error {
	ui.HeaderMsg("System Information")

	table := ui.NewTable(os.Stdout)
	row := func(label, value string) {
		if value != "" {
			table.AddRow("  "+label+":", value)
		}
	}

	row("OS", r.OS)
	row("Distribution", r.PrettyName)
	row("Release", r.VersionID)
	row("Codename", r.Codename)
	row("Debian family", yesNo(r.DebianFamily))
	row("Native arch", r.NativeArch)
	row("Multi-arch", yesNo(r.MultiArch))
	if r.RoughSize > 0 {
		row("Packages", "~"+strconv.Itoa(r.RoughSize))
	}
	row("Frontend", fmt.Sprintf("%s (%s)", apt.DisplayName(), availability(r.Available)))
	row("Privileges", privileges())
	row("Config", r.ConfigPath)
	row("History", r.HistoryPath)

	return table.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func availability(ok bool) string {
	if ok {
		return "available"
	}
	return "not found"
}

func privileges() string {
	switch {
	case executor.IsRoot():
		return "root"
	case executor.HasSudo():
		return "sudo"
	default:
		return "none"
	}
}
