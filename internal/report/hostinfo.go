package report

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostInfo captures where a run happened, so throughput figures can
// be compared across machines.
type HostInfo struct {
	Hostname string  `json:"hostname" yaml:"hostname"`
	OS       string  `json:"os" yaml:"os"`
	Arch     string  `json:"arch" yaml:"arch"`
	CPUModel string  `json:"cpu_model" yaml:"cpu_model"`
	CPUCores int     `json:"cpu_cores" yaml:"cpu_cores"`
	MemoryGB float64 `json:"memory_gb" yaml:"memory_gb"`
}

// CollectHost gathers host facts. Probe failures degrade to partial
// info rather than failing the report.
func CollectHost() HostInfo {
	info := HostInfo{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}

	if name, err := os.Hostname(); err == nil {
		info.Hostname = name
	}
	if count, err := cpu.Counts(true); err == nil {
		info.CPUCores = count
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		info.CPUModel = infos[0].ModelName
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.MemoryGB = float64(vm.Total) / (1024 * 1024 * 1024)
	}
	return info
}
