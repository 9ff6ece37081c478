package metrics

import (
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// SystemSample is a system-wide resource reading taken at scrape time.
type SystemSample struct {
	CPUPercent float64 // 0..100
	MemPercent float64 // 0..100
}

// SampleSystem reads CPU and memory usage. CPU usage is the delta since
// the previous call; the first call in a process may report zero. Failed
// readings are left at zero.
func SampleSystem() SystemSample {
	var s SystemSample
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = pcts[0]
	}
	if vmem, err := mem.VirtualMemory(); err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	return s
}
