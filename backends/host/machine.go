package host

import (
	"math"
	"runtime"
	"unsafe"

	"github.com/gomlx/devinfo/info"
	"github.com/x448/float16"
	"golang.org/x/sys/cpu"
	"k8s.io/klog/v2"
)

// machine holds what was detected about the host at construction time.
type machine struct {
	numCPU int

	// Widest SIMD registers, in bytes, for integer and floating point operations. 0 if there is no SIMD.
	intVectorBytes, floatVectorBytes int

	hasFMA, hardwareHalf bool
	halfFPConfig         []info.FPConfig

	totalMemory   uint64
	cacheSize     uint64
	cacheLineSize uint32
}

// minMaxMemAlloc is the smallest max_mem_alloc_size a full profile device can report.
const minMaxMemAlloc = 128 * 1024 * 1024

func detectMachine() *machine {
	m := &machine{numCPU: runtime.NumCPU()}
	switch {
	case cpu.X86.HasAVX512F:
		m.intVectorBytes, m.floatVectorBytes = 64, 64
	case cpu.X86.HasAVX2:
		m.intVectorBytes, m.floatVectorBytes = 32, 32
	case cpu.X86.HasAVX:
		m.intVectorBytes, m.floatVectorBytes = 16, 32
	case cpu.X86.HasSSE2, cpu.ARM64.HasASIMD:
		m.intVectorBytes, m.floatVectorBytes = 16, 16
	}
	m.hasFMA = cpu.X86.HasFMA || cpu.ARM64.HasASIMD
	m.hardwareHalf = cpu.ARM64.HasFPHP && cpu.ARM64.HasASIMDHP
	m.halfFPConfig = probeHalf(m.hardwareHalf)

	var ok bool
	if m.totalMemory, ok = totalMemory(); !ok {
		klog.Warningf("host backend: failed to detect total memory, reporting %d bytes", minMaxMemAlloc)
		m.totalMemory = minMaxMemAlloc
	}
	m.cacheSize, m.cacheLineSize = cacheInfo()
	if m.cacheLineSize == 0 {
		m.cacheLineSize = uint32(unsafe.Sizeof(cpu.CacheLinePad{}))
	}
	klog.V(1).Infof("host backend: %d cpus, %d bytes of memory, vectors of %d/%d bytes, fma=%v, half=%v",
		m.numCPU, m.totalMemory, m.intVectorBytes, m.floatVectorBytes, m.hasFMA, m.hardwareHalf)
	return m
}

// vectorWidth for integers of elementSize bytes. Without SIMD the preferred width is 1 and there is no
// native vector.
func (m *machine) vectorWidth(elementSize int, native bool) uint32 {
	if m.intVectorBytes == 0 {
		if native {
			return 0
		}
		return 1
	}
	return uint32(m.intVectorBytes / elementSize)
}

func (m *machine) floatVectorWidth(elementSize int) uint32 {
	if m.floatVectorBytes == 0 {
		return 1
	}
	return uint32(m.floatVectorBytes / elementSize)
}

func (m *machine) maxMemAlloc() uint64 {
	return max(m.totalMemory/4, minMaxMemAlloc)
}

func (m *machine) fpConfig(single bool) []info.FPConfig {
	configs := []info.FPConfig{
		info.FPConfigDenorm, info.FPConfigInfNan,
		info.FPConfigRoundToNearest, info.FPConfigRoundToZero, info.FPConfigRoundToInf,
	}
	if m.hasFMA {
		configs = append(configs, info.FPConfigFMA)
	}
	if single {
		configs = append(configs, info.FPConfigCorrectlyRoundedDivideSqrt)
	}
	return configs
}

func (m *machine) extensions() []string {
	extensions := []string{"cl_khr_fp64"}
	if m.hardwareHalf {
		extensions = append(extensions, "cl_khr_fp16")
	}
	return extensions
}

// probeHalf checks the half-precision conversions the host uses: without hardware support
// halves are converted in software, and reported as such.
func probeHalf(hardware bool) []info.FPConfig {
	var configs []info.FPConfig
	if float16.Frombits(0x0001).Float32() > 0 {
		configs = append(configs, info.FPConfigDenorm)
	}
	if float16.Fromfloat32(float32(math.Inf(1))).IsInf(1) && float16.Fromfloat32(float32(math.NaN())).IsNaN() {
		configs = append(configs, info.FPConfigInfNan)
	}
	// 1+2^-11 is exactly halfway between 1 and the next half: ties go to even.
	if float16.Fromfloat32(1+1.0/2048).Float32() == 1 {
		configs = append(configs, info.FPConfigRoundToNearest)
	}
	if !hardware {
		configs = append(configs, info.FPConfigSoftFloat)
	}
	return configs
}
