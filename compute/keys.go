package compute

import (
	"github.com/gomlx/devinfo/info"
	"github.com/gomlx/exceptions"
)

// DeviceKey is a device query bound to the Go type of its answer, see DeviceInfo.
type DeviceKey[T any] struct {
	Param info.DeviceParam
}

// PlatformKey is a platform query bound to the Go type of its answer, see PlatformInfo.
type PlatformKey[T any] struct {
	Param info.PlatformParam
}

// ContextKey is a context query bound to the Go type of its answer, see ContextInfo.
type ContextKey[T any] struct {
	Param info.ContextParam
}

// QueueKey is a queue query bound to the Go type of its answer, see QueueInfo.
type QueueKey[T any] struct {
	Param info.QueueParam
}

// NewDeviceKey creates a typed key for the device query. It panics if T is not the Go type of
// the query's answers.
func NewDeviceKey[T any](param info.DeviceParam) DeviceKey[T] {
	checkKeyType[T](info.OwnerDevice, param.Entry())
	return DeviceKey[T]{param}
}

// NewPlatformKey creates a typed key for the platform query. It panics if T is not the Go type of
// the query's answers.
func NewPlatformKey[T any](param info.PlatformParam) PlatformKey[T] {
	checkKeyType[T](info.OwnerPlatform, param.Entry())
	return PlatformKey[T]{param}
}

func newContextKey[T any](param info.ContextParam) ContextKey[T] {
	checkKeyType[T](info.OwnerContext, param.Entry())
	return ContextKey[T]{param}
}

func newQueueKey[T any](param info.QueueParam) QueueKey[T] {
	checkKeyType[T](info.OwnerQueue, param.Entry())
	return QueueKey[T]{param}
}

func checkKeyType[T any](owner info.OwnerKind, entry *info.Entry) {
	var sample any
	switch entry.Type {
	case info.TypePlatform:
		sample = Platform{}
	case info.TypeDevice:
		sample = Device{}
	case info.TypeContext:
		sample = Context{}
	case info.TypeDevices:
		sample = DeviceList(nil)
	default:
		sample = entry.Type.Zero().Any()
	}
	if _, ok := sample.(T); !ok {
		exceptions.Panicf("key for %s query %q bound to %T, but its answers are %T", owner, entry.Name, *new(T), sample)
	}
}

// DeviceInfo answers a device query as its Go type. See Device.GetInfo.
func DeviceInfo[T any](d Device, key DeviceKey[T]) (T, error) {
	v, err := d.GetInfo(key.Param)
	if err != nil {
		var zero T
		return zero, err
	}
	return info.As[T](v), nil
}

// PlatformInfo answers a platform query as its Go type. See Platform.GetInfo.
func PlatformInfo[T any](p Platform, key PlatformKey[T]) (T, error) {
	v, err := p.GetInfo(key.Param)
	if err != nil {
		var zero T
		return zero, err
	}
	return info.As[T](v), nil
}

// ContextInfo answers a context query as its Go type.
func ContextInfo[T any](c Context, key ContextKey[T]) (T, error) {
	v, err := c.GetInfo(key.Param)
	if err != nil {
		var zero T
		return zero, err
	}
	return info.As[T](v), nil
}

// QueueInfo answers a queue query as its Go type.
func QueueInfo[T any](q Queue, key QueueKey[T]) (T, error) {
	v, err := q.GetInfo(key.Param)
	if err != nil {
		var zero T
		return zero, err
	}
	return info.As[T](v), nil
}

// Device query keys.
var (
	DeviceType                       = NewDeviceKey[info.DeviceType](info.DeviceParamDeviceType)
	DeviceVendorID                   = NewDeviceKey[uint32](info.DeviceParamVendorID)
	DeviceMaxComputeUnits            = NewDeviceKey[uint32](info.DeviceParamMaxComputeUnits)
	DeviceMaxWorkItemDimensions      = NewDeviceKey[uint32](info.DeviceParamMaxWorkItemDimensions)
	DeviceMaxWorkItemSizes           = NewDeviceKey[info.ID3](info.DeviceParamMaxWorkItemSizes)
	DeviceMaxWorkGroupSize           = NewDeviceKey[uint64](info.DeviceParamMaxWorkGroupSize)
	DevicePreferredVectorWidthChar   = NewDeviceKey[uint32](info.DeviceParamPreferredVectorWidthChar)
	DevicePreferredVectorWidthShort  = NewDeviceKey[uint32](info.DeviceParamPreferredVectorWidthShort)
	DevicePreferredVectorWidthInt    = NewDeviceKey[uint32](info.DeviceParamPreferredVectorWidthInt)
	DevicePreferredVectorWidthLong   = NewDeviceKey[uint32](info.DeviceParamPreferredVectorWidthLong)
	DevicePreferredVectorWidthFloat  = NewDeviceKey[uint32](info.DeviceParamPreferredVectorWidthFloat)
	DevicePreferredVectorWidthDouble = NewDeviceKey[uint32](info.DeviceParamPreferredVectorWidthDouble)
	DevicePreferredVectorWidthHalf   = NewDeviceKey[uint32](info.DeviceParamPreferredVectorWidthHalf)
	DeviceNativeVectorWidthChar      = NewDeviceKey[uint32](info.DeviceParamNativeVectorWidthChar)
	DeviceNativeVectorWidthShort     = NewDeviceKey[uint32](info.DeviceParamNativeVectorWidthShort)
	DeviceNativeVectorWidthInt       = NewDeviceKey[uint32](info.DeviceParamNativeVectorWidthInt)
	DeviceNativeVectorWidthLong      = NewDeviceKey[uint32](info.DeviceParamNativeVectorWidthLong)
	DeviceNativeVectorWidthFloat     = NewDeviceKey[uint32](info.DeviceParamNativeVectorWidthFloat)
	DeviceNativeVectorWidthDouble    = NewDeviceKey[uint32](info.DeviceParamNativeVectorWidthDouble)
	DeviceNativeVectorWidthHalf      = NewDeviceKey[uint32](info.DeviceParamNativeVectorWidthHalf)
	DeviceMaxClockFrequency          = NewDeviceKey[uint32](info.DeviceParamMaxClockFrequency)
	DeviceAddressBits                = NewDeviceKey[uint32](info.DeviceParamAddressBits)
	DeviceMaxMemAllocSize            = NewDeviceKey[uint64](info.DeviceParamMaxMemAllocSize)
	DeviceImageSupport               = NewDeviceKey[bool](info.DeviceParamImageSupport)
	DeviceMaxReadImageArgs           = NewDeviceKey[uint32](info.DeviceParamMaxReadImageArgs)
	DeviceMaxWriteImageArgs          = NewDeviceKey[uint32](info.DeviceParamMaxWriteImageArgs)
	DeviceImage2DMaxWidth            = NewDeviceKey[uint64](info.DeviceParamImage2DMaxWidth)
	DeviceImage2DMaxHeight           = NewDeviceKey[uint64](info.DeviceParamImage2DMaxHeight)
	DeviceImage3DMaxWidth            = NewDeviceKey[uint64](info.DeviceParamImage3DMaxWidth)
	DeviceImage3DMaxHeight           = NewDeviceKey[uint64](info.DeviceParamImage3DMaxHeight)
	DeviceImage3DMaxDepth            = NewDeviceKey[uint64](info.DeviceParamImage3DMaxDepth)
	DeviceImageMaxBufferSize         = NewDeviceKey[uint64](info.DeviceParamImageMaxBufferSize)
	DeviceImageMaxArraySize          = NewDeviceKey[uint64](info.DeviceParamImageMaxArraySize)
	DeviceMaxSamplers                = NewDeviceKey[uint32](info.DeviceParamMaxSamplers)
	DeviceMaxParameterSize           = NewDeviceKey[uint64](info.DeviceParamMaxParameterSize)
	DeviceMemBaseAddrAlign           = NewDeviceKey[uint32](info.DeviceParamMemBaseAddrAlign)
	DeviceHalfFPConfig               = NewDeviceKey[[]info.FPConfig](info.DeviceParamHalfFPConfig)
	DeviceSingleFPConfig             = NewDeviceKey[[]info.FPConfig](info.DeviceParamSingleFPConfig)
	DeviceDoubleFPConfig             = NewDeviceKey[[]info.FPConfig](info.DeviceParamDoubleFPConfig)
	DeviceGlobalMemCacheType         = NewDeviceKey[info.GlobalMemCacheType](info.DeviceParamGlobalMemCacheType)
	DeviceGlobalMemCacheLineSize     = NewDeviceKey[uint32](info.DeviceParamGlobalMemCacheLineSize)
	DeviceGlobalMemCacheSize         = NewDeviceKey[uint64](info.DeviceParamGlobalMemCacheSize)
	DeviceGlobalMemSize              = NewDeviceKey[uint64](info.DeviceParamGlobalMemSize)
	DeviceMaxConstantBufferSize      = NewDeviceKey[uint64](info.DeviceParamMaxConstantBufferSize)
	DeviceMaxConstantArgs            = NewDeviceKey[uint32](info.DeviceParamMaxConstantArgs)
	DeviceLocalMemType               = NewDeviceKey[info.LocalMemType](info.DeviceParamLocalMemType)
	DeviceLocalMemSize               = NewDeviceKey[uint64](info.DeviceParamLocalMemSize)
	DeviceErrorCorrectionSupport     = NewDeviceKey[bool](info.DeviceParamErrorCorrectionSupport)
	DeviceHostUnifiedMemory          = NewDeviceKey[bool](info.DeviceParamHostUnifiedMemory)
	DeviceProfilingTimerResolution   = NewDeviceKey[uint64](info.DeviceParamProfilingTimerResolution)
	DeviceIsEndianLittle             = NewDeviceKey[bool](info.DeviceParamIsEndianLittle)
	DeviceIsAvailable                = NewDeviceKey[bool](info.DeviceParamIsAvailable)
	DeviceIsCompilerAvailable        = NewDeviceKey[bool](info.DeviceParamIsCompilerAvailable)
	DeviceIsLinkerAvailable          = NewDeviceKey[bool](info.DeviceParamIsLinkerAvailable)
	DeviceExecutionCapabilities      = NewDeviceKey[[]info.ExecutionCapability](info.DeviceParamExecutionCapabilities)
	DeviceQueueProfiling             = NewDeviceKey[bool](info.DeviceParamQueueProfiling)
	DeviceBuiltInKernels             = NewDeviceKey[[]string](info.DeviceParamBuiltInKernels)
	DevicePlatform                   = NewDeviceKey[Platform](info.DeviceParamPlatform)
	DeviceName                       = NewDeviceKey[string](info.DeviceParamName)
	DeviceVendor                     = NewDeviceKey[string](info.DeviceParamVendor)
	DeviceDriverVersion              = NewDeviceKey[string](info.DeviceParamDriverVersion)
	DeviceProfile                    = NewDeviceKey[string](info.DeviceParamProfile)
	DeviceVersion                    = NewDeviceKey[string](info.DeviceParamVersion)
	DeviceOpenCLCVersion             = NewDeviceKey[string](info.DeviceParamOpenCLCVersion)
	DeviceExtensions                 = NewDeviceKey[[]string](info.DeviceParamExtensions)
	DevicePrintfBufferSize           = NewDeviceKey[uint64](info.DeviceParamPrintfBufferSize)
	DevicePreferredInteropUserSync   = NewDeviceKey[bool](info.DeviceParamPreferredInteropUserSync)
	DeviceParentDevice               = NewDeviceKey[Device](info.DeviceParamParentDevice)
	DevicePartitionMaxSubDevices     = NewDeviceKey[uint32](info.DeviceParamPartitionMaxSubDevices)
	DevicePartitionProperties        = NewDeviceKey[[]info.PartitionProperty](info.DeviceParamPartitionProperties)
	DevicePartitionAffinityDomains   = NewDeviceKey[[]info.PartitionAffinityDomain](info.DeviceParamPartitionAffinityDomains)
	DevicePartitionTypeProperty      = NewDeviceKey[info.PartitionProperty](info.DeviceParamPartitionTypeProperty)
	DevicePartitionTypeAffinity      = NewDeviceKey[info.PartitionAffinityDomain](info.DeviceParamPartitionTypeAffinityDomain)
	DeviceReferenceCount             = NewDeviceKey[uint32](info.DeviceParamReferenceCount)
)

// Platform query keys.
var (
	PlatformProfile    = NewPlatformKey[string](info.PlatformParamProfile)
	PlatformVersion    = NewPlatformKey[string](info.PlatformParamVersion)
	PlatformName       = NewPlatformKey[string](info.PlatformParamName)
	PlatformVendor     = NewPlatformKey[string](info.PlatformParamVendor)
	PlatformExtensions = NewPlatformKey[[]string](info.PlatformParamExtensions)
)

// Context and queue query keys.
var (
	ContextDevices        = newContextKey[DeviceList](info.ContextParamDevices)
	ContextPlatform       = newContextKey[Platform](info.ContextParamPlatform)
	ContextReferenceCount = newContextKey[uint32](info.ContextParamReferenceCount)

	QueueDevice         = newQueueKey[Device](info.QueueParamDevice)
	QueueContext        = newQueueKey[Context](info.QueueParamContext)
	QueueReferenceCount = newQueueKey[uint32](info.QueueParamReferenceCount)
)
