// Package observability collects process-level health metrics.
package observability

import (
	"os"

	"github.com/shirou/gopsutil/process"
)

// ProcessStats is a point-in-time reading of the relay's own process.
type ProcessStats struct {
	Pid        int     `json:"pid"`
	Status     string  `json:"status"`
	CPUPercent float64 `json:"cpuPercent"`
	RAMBytes   uint64  `json:"ramBytes"`
}

// Self retrieves memory, CPU and OS status for the current process.
func Self() (ProcessStats, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return ProcessStats{}, err
	}
	return Collect(p)
}

// Collect retrieves memory, CPU and OS status for the given process.
func Collect(p *process.Process) (ProcessStats, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return ProcessStats{}, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return ProcessStats{}, err
	}
	status, err := p.Status()
	if err != nil {
		return ProcessStats{}, err
	}
	return ProcessStats{
		Pid:        int(p.Pid),
		Status:     status,
		CPUPercent: cpuPercent,
		RAMBytes:   memInfo.RSS,
	}, nil
}
