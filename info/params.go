// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package info

// DeviceParam identifies a query on a device.
type DeviceParam int

// Device queries, in the order they are reported.
const (
	DeviceParamDeviceType DeviceParam = iota
	DeviceParamVendorID
	DeviceParamMaxComputeUnits
	DeviceParamMaxWorkItemDimensions
	DeviceParamMaxWorkItemSizes
	DeviceParamMaxWorkGroupSize
	DeviceParamPreferredVectorWidthChar
	DeviceParamPreferredVectorWidthShort
	DeviceParamPreferredVectorWidthInt
	DeviceParamPreferredVectorWidthLong
	DeviceParamPreferredVectorWidthFloat
	DeviceParamPreferredVectorWidthDouble
	DeviceParamPreferredVectorWidthHalf
	DeviceParamNativeVectorWidthChar
	DeviceParamNativeVectorWidthShort
	DeviceParamNativeVectorWidthInt
	DeviceParamNativeVectorWidthLong
	DeviceParamNativeVectorWidthFloat
	DeviceParamNativeVectorWidthDouble
	DeviceParamNativeVectorWidthHalf
	DeviceParamMaxClockFrequency
	DeviceParamAddressBits
	DeviceParamMaxMemAllocSize
	DeviceParamImageSupport
	DeviceParamMaxReadImageArgs
	DeviceParamMaxWriteImageArgs
	DeviceParamImage2DMaxWidth
	DeviceParamImage2DMaxHeight
	DeviceParamImage3DMaxWidth
	DeviceParamImage3DMaxHeight
	DeviceParamImage3DMaxDepth
	DeviceParamImageMaxBufferSize
	DeviceParamImageMaxArraySize
	DeviceParamMaxSamplers
	DeviceParamMaxParameterSize
	DeviceParamMemBaseAddrAlign
	DeviceParamHalfFPConfig
	DeviceParamSingleFPConfig
	DeviceParamDoubleFPConfig
	DeviceParamGlobalMemCacheType
	DeviceParamGlobalMemCacheLineSize
	DeviceParamGlobalMemCacheSize
	DeviceParamGlobalMemSize
	DeviceParamMaxConstantBufferSize
	DeviceParamMaxConstantArgs
	DeviceParamLocalMemType
	DeviceParamLocalMemSize
	DeviceParamErrorCorrectionSupport
	DeviceParamHostUnifiedMemory
	DeviceParamProfilingTimerResolution
	DeviceParamIsEndianLittle
	DeviceParamIsAvailable
	DeviceParamIsCompilerAvailable
	DeviceParamIsLinkerAvailable
	DeviceParamExecutionCapabilities
	DeviceParamQueueProfiling
	DeviceParamBuiltInKernels
	DeviceParamPlatform
	DeviceParamName
	DeviceParamVendor
	DeviceParamDriverVersion
	DeviceParamProfile
	DeviceParamVersion
	DeviceParamOpenCLCVersion
	DeviceParamExtensions
	DeviceParamPrintfBufferSize
	DeviceParamPreferredInteropUserSync
	DeviceParamParentDevice
	DeviceParamPartitionMaxSubDevices
	DeviceParamPartitionProperties
	DeviceParamPartitionAffinityDomains
	DeviceParamPartitionTypeProperty
	DeviceParamPartitionTypeAffinityDomain
	DeviceParamReferenceCount

	numDeviceParams
)

// HostNotApplicable is the documented host answer of version strings that only make sense for a real backend.
const HostNotApplicable = "not applicable"

var deviceEntries = [numDeviceParams]Entry{
	DeviceParamDeviceType:                 {Name: "device_type", Label: "Device type", Type: TypeDeviceType},
	DeviceParamVendorID:                   {Name: "vendor_id", Label: "Vendor ID", Type: TypeUint32, HostDefault: uint32(0)},
	DeviceParamMaxComputeUnits:            {Name: "max_compute_units", Label: "Max compute units", Type: TypeUint32},
	DeviceParamMaxWorkItemDimensions:      {Name: "max_work_item_dimensions", Label: "Max work item dimensions", Type: TypeUint32, HostDefault: uint32(3)},
	DeviceParamMaxWorkItemSizes:           {Name: "max_work_item_sizes", Label: "Max work item sizes", Type: TypeID3},
	DeviceParamMaxWorkGroupSize:           {Name: "max_work_group_size", Label: "Max work group size", Type: TypeSize},
	DeviceParamPreferredVectorWidthChar:   {Name: "preferred_vector_width_char", Label: "Preferred vector width char", Type: TypeUint32},
	DeviceParamPreferredVectorWidthShort:  {Name: "preferred_vector_width_short", Label: "Preferred vector width short", Type: TypeUint32},
	DeviceParamPreferredVectorWidthInt:    {Name: "preferred_vector_width_int", Label: "Preferred vector width int", Type: TypeUint32},
	DeviceParamPreferredVectorWidthLong:   {Name: "preferred_vector_width_long", Label: "Preferred vector width long", Type: TypeUint32},
	DeviceParamPreferredVectorWidthFloat:  {Name: "preferred_vector_width_float", Label: "Preferred vector width float", Type: TypeUint32},
	DeviceParamPreferredVectorWidthDouble: {Name: "preferred_vector_width_double", Label: "Preferred vector width double", Type: TypeUint32},
	DeviceParamPreferredVectorWidthHalf:   {Name: "preferred_vector_width_half", Label: "Preferred vector width half", Type: TypeUint32},
	DeviceParamNativeVectorWidthChar:      {Name: "native_vector_width_char", Label: "Native vector width char", Type: TypeUint32},
	DeviceParamNativeVectorWidthShort:     {Name: "native_vector_width_short", Label: "Native vector width short", Type: TypeUint32},
	DeviceParamNativeVectorWidthInt:       {Name: "native_vector_width_int", Label: "Native vector width int", Type: TypeUint32},
	DeviceParamNativeVectorWidthLong:      {Name: "native_vector_width_long", Label: "Native vector width long", Type: TypeUint32},
	DeviceParamNativeVectorWidthFloat:     {Name: "native_vector_width_float", Label: "Native vector width float", Type: TypeUint32},
	DeviceParamNativeVectorWidthDouble:    {Name: "native_vector_width_double", Label: "Native vector width double", Type: TypeUint32},
	DeviceParamNativeVectorWidthHalf:      {Name: "native_vector_width_half", Label: "Native vector width half", Type: TypeUint32},

	// Frequency detection is not available for the host.
	DeviceParamMaxClockFrequency: {Name: "max_clock_frequency", Label: "Max clock frequency", Type: TypeUint32, HostDefault: uint32(0)},

	DeviceParamAddressBits:     {Name: "address_bits", Label: "Address bits", Type: TypeUint32},
	DeviceParamMaxMemAllocSize: {Name: "max_mem_alloc_size", Label: "Max mem alloc size", Type: TypeUint64, Bytes: true},

	// Host image limits are the minimums of the OpenCL full profile.
	DeviceParamImageSupport:       {Name: "image_support", Label: "Image support", Type: TypeBool, HostDefault: true},
	DeviceParamMaxReadImageArgs:   {Name: "max_read_image_args", Label: "Max read image args", Type: TypeUint32, HostDefault: uint32(128)},
	DeviceParamMaxWriteImageArgs:  {Name: "max_write_image_args", Label: "Max write image args", Type: TypeUint32, HostDefault: uint32(8)},
	DeviceParamImage2DMaxWidth:    {Name: "image2d_max_width", Label: "Image2D max width", Type: TypeSize, HostDefault: uint64(8192)},
	DeviceParamImage2DMaxHeight:   {Name: "image2d_max_height", Label: "Image2D max height", Type: TypeSize, HostDefault: uint64(8192)},
	DeviceParamImage3DMaxWidth:    {Name: "image3d_max_width", Label: "Image3D max width", Type: TypeSize, HostDefault: uint64(2048)},
	DeviceParamImage3DMaxHeight:   {Name: "image3d_max_height", Label: "Image3D max height", Type: TypeSize, HostDefault: uint64(2048)},
	DeviceParamImage3DMaxDepth:    {Name: "image3d_max_depth", Label: "Image3D max depth", Type: TypeSize, HostDefault: uint64(2048)},
	DeviceParamImageMaxBufferSize: {Name: "image_max_buffer_size", Label: "Image max buffer size", Type: TypeSize, HostDefault: uint64(65536)},
	DeviceParamImageMaxArraySize:  {Name: "image_max_array_size", Label: "Image max array size", Type: TypeSize, HostDefault: uint64(2048)},
	DeviceParamMaxSamplers:        {Name: "max_samplers", Label: "Max samplers", Type: TypeUint32, HostDefault: uint32(16)},
	DeviceParamMaxParameterSize:   {Name: "max_parameter_size", Label: "Max parameter size", Type: TypeSize, HostDefault: uint64(1024), Bytes: true},
	DeviceParamMemBaseAddrAlign:   {Name: "mem_base_addr_align", Label: "Mem base addr align", Type: TypeUint32, HostDefault: uint32(1024)},

	DeviceParamHalfFPConfig:   {Name: "half_fp_config", Label: "Half fp config", Type: TypeFPConfigs, Rule: RuleBitfield},
	DeviceParamSingleFPConfig: {Name: "single_fp_config", Label: "Single fp config", Type: TypeFPConfigs, Rule: RuleBitfield},
	DeviceParamDoubleFPConfig: {Name: "double_fp_config", Label: "Double fp config", Type: TypeFPConfigs, Rule: RuleBitfield},

	DeviceParamGlobalMemCacheType:     {Name: "global_mem_cache_type", Label: "Global mem cache type", Type: TypeGlobalMemCacheType, HostDefault: GlobalMemCacheReadWrite},
	DeviceParamGlobalMemCacheLineSize: {Name: "global_mem_cache_line_size", Label: "Global mem cache line size", Type: TypeUint32, Bytes: true},
	DeviceParamGlobalMemCacheSize:     {Name: "global_mem_cache_size", Label: "Global mem cache size", Type: TypeUint64, Bytes: true},
	DeviceParamGlobalMemSize:          {Name: "global_mem_size", Label: "Global mem size", Type: TypeUint64, Bytes: true},
	DeviceParamMaxConstantBufferSize:  {Name: "max_constant_buffer_size", Label: "Max constant buffer size", Type: TypeUint64, Bytes: true},
	DeviceParamMaxConstantArgs:        {Name: "max_constant_args", Label: "Max constant args", Type: TypeUint32, HostDefault: uint32(8)},
	DeviceParamLocalMemType:           {Name: "local_mem_type", Label: "Local mem type", Type: TypeLocalMemType, HostDefault: LocalMemGlobal},
	DeviceParamLocalMemSize:           {Name: "local_mem_size", Label: "Local mem size", Type: TypeUint64, HostDefault: uint64(32 * 1024), Bytes: true},

	DeviceParamErrorCorrectionSupport:   {Name: "error_correction_support", Label: "Error correction support", Type: TypeBool, HostDefault: false},
	DeviceParamHostUnifiedMemory:        {Name: "host_unified_memory", Label: "Host unified memory", Type: TypeBool, HostDefault: true},
	DeviceParamProfilingTimerResolution: {Name: "profiling_timer_resolution", Label: "Profiling timer resolution", Type: TypeSize, HostDefault: uint64(1)},
	DeviceParamIsEndianLittle:           {Name: "is_endian_little", Label: "Is endian little", Type: TypeBool},
	DeviceParamIsAvailable:              {Name: "is_available", Label: "Is available", Type: TypeBool, HostDefault: true},
	DeviceParamIsCompilerAvailable:      {Name: "is_compiler_available", Label: "Is compiler available", Type: TypeBool, HostDefault: true},
	DeviceParamIsLinkerAvailable:        {Name: "is_linker_available", Label: "Is linker available", Type: TypeBool, HostDefault: true},
	DeviceParamExecutionCapabilities: {
		Name: "execution_capabilities", Label: "Execution capabilities", Type: TypeExecutionCapabilities,
		Rule: RuleBitfield, HostDefault: []ExecutionCapability{ExecKernel},
	},
	DeviceParamQueueProfiling:  {Name: "queue_profiling", Label: "Queue profiling", Type: TypeBool, HostDefault: true},
	DeviceParamBuiltInKernels:  {Name: "built_in_kernels", Label: "Built in kernels", Type: TypeStrings, Rule: RuleSplitSpaces, HostDefault: []string{}},
	DeviceParamPlatform:        {Name: "platform", Label: "Platform", Type: TypePlatform, Source: SourceHandle},
	DeviceParamName:            {Name: "name", Label: "Name", Type: TypeString},
	DeviceParamVendor:          {Name: "vendor", Label: "Vendor", Type: TypeString},
	DeviceParamDriverVersion:   {Name: "driver_version", Label: "Driver version", Type: TypeString},
	DeviceParamProfile:         {Name: "profile", Label: "Profile", Type: TypeString},
	DeviceParamVersion:         {Name: "version", Label: "Version", Type: TypeString},
	DeviceParamOpenCLCVersion:  {Name: "opencl_c_version", Label: "OpenCL C version", Type: TypeString, HostDefault: HostNotApplicable},
	DeviceParamExtensions:      {Name: "extensions", Label: "Extensions", Type: TypeStrings, Rule: RuleSplitSpaces},
	DeviceParamPrintfBufferSize: {Name: "printf_buffer_size", Label: "Printf buffer size", Type: TypeSize, HostDefault: uint64(1024 * 1024), Bytes: true},
	DeviceParamPreferredInteropUserSync: {
		Name: "preferred_interop_user_sync", Label: "Preferred interop user sync", Type: TypeBool, HostDefault: false,
	},
	DeviceParamParentDevice: {Name: "parent_device", Label: "Parent device", Type: TypeDevice, Source: SourceHandle, SubDeviceOnly: true},
	DeviceParamPartitionMaxSubDevices: {
		Name: "partition_max_sub_devices", Label: "Partition max sub devices", Type: TypeUint32, HostDefault: uint32(0),
	},
	DeviceParamPartitionProperties: {
		Name: "partition_properties", Label: "Partition properties", Type: TypePartitionProperties,
		HostDefault: []PartitionProperty{},
	},
	DeviceParamPartitionAffinityDomains: {
		Name: "partition_affinity_domains", Label: "Partition affinity domains", Type: TypeAffinityDomains,
		Rule: RuleBitfield, HostDefault: []PartitionAffinityDomain{},
	},
	DeviceParamPartitionTypeProperty: {
		Name: "partition_type_property", Label: "Partition type property", Type: TypePartitionProperty, Source: SourceHandle,
	},
	DeviceParamPartitionTypeAffinityDomain: {
		Name: "partition_type_affinity_domain", Label: "Partition type affinity domain", Type: TypeAffinityDomain,
		Source: SourceHandle,
	},
	DeviceParamReferenceCount: {Name: "reference_count", Label: "Reference count", Type: TypeUint32, Source: SourceHandle},
}

// Entry returns the table entry of the query. It panics (with ErrInvalidQuery) for values outside the table.
func (p DeviceParam) Entry() *Entry { return lookupEntry(deviceEntries[:], OwnerDevice, int(p)) }

// String returns the canonical name of the query.
func (p DeviceParam) String() string { return p.Entry().Name }

// DeviceParams returns all device queries, in reporting order.
func DeviceParams() []DeviceParam {
	params := make([]DeviceParam, numDeviceParams)
	for idx := range params {
		params[idx] = DeviceParam(idx)
	}
	return params
}

// DeviceParamByName returns the device query with the given canonical name.
func DeviceParamByName(name string) (DeviceParam, bool) {
	idx, found := lookupByName(deviceEntries[:], name)
	return DeviceParam(idx), found
}

// PlatformParam identifies a query on a platform.
type PlatformParam int

const (
	PlatformParamProfile PlatformParam = iota
	PlatformParamVersion
	PlatformParamName
	PlatformParamVendor
	PlatformParamExtensions

	numPlatformParams
)

var platformEntries = [numPlatformParams]Entry{
	PlatformParamProfile:    {Name: "profile", Label: "Profile", Type: TypeString},
	PlatformParamVersion:    {Name: "version", Label: "Version", Type: TypeString},
	PlatformParamName:       {Name: "name", Label: "Name", Type: TypeString},
	PlatformParamVendor:     {Name: "vendor", Label: "Vendor", Type: TypeString},
	PlatformParamExtensions: {Name: "extensions", Label: "Extensions", Type: TypeStrings, Rule: RuleSplitSpaces},
}

// Entry returns the table entry of the query. It panics (with ErrInvalidQuery) for values outside the table.
func (p PlatformParam) Entry() *Entry { return lookupEntry(platformEntries[:], OwnerPlatform, int(p)) }

// String returns the canonical name of the query.
func (p PlatformParam) String() string { return p.Entry().Name }

// PlatformParams returns all platform queries, in reporting order.
func PlatformParams() []PlatformParam {
	params := make([]PlatformParam, numPlatformParams)
	for idx := range params {
		params[idx] = PlatformParam(idx)
	}
	return params
}

// PlatformParamByName returns the platform query with the given canonical name.
func PlatformParamByName(name string) (PlatformParam, bool) {
	idx, found := lookupByName(platformEntries[:], name)
	return PlatformParam(idx), found
}

// ContextParam identifies a query on a context. Contexts are answered by their handles only.
type ContextParam int

const (
	ContextParamDevices ContextParam = iota
	ContextParamPlatform
	ContextParamReferenceCount

	numContextParams
)

var contextEntries = [numContextParams]Entry{
	ContextParamDevices:        {Name: "devices", Label: "Devices", Type: TypeDevices, Source: SourceHandle},
	ContextParamPlatform:       {Name: "platform", Label: "Platform", Type: TypePlatform, Source: SourceHandle},
	ContextParamReferenceCount: {Name: "reference_count", Label: "Reference count", Type: TypeUint32, Source: SourceHandle},
}

// Entry returns the table entry of the query. It panics (with ErrInvalidQuery) for values outside the table.
func (p ContextParam) Entry() *Entry { return lookupEntry(contextEntries[:], OwnerContext, int(p)) }

// String returns the canonical name of the query.
func (p ContextParam) String() string { return p.Entry().Name }

// QueueParam identifies a query on a queue. Queues are answered by their handles only.
type QueueParam int

const (
	QueueParamDevice QueueParam = iota
	QueueParamContext
	QueueParamReferenceCount

	numQueueParams
)

var queueEntries = [numQueueParams]Entry{
	QueueParamDevice:         {Name: "device", Label: "Device", Type: TypeDevice, Source: SourceHandle},
	QueueParamContext:        {Name: "context", Label: "Context", Type: TypeContext, Source: SourceHandle},
	QueueParamReferenceCount: {Name: "reference_count", Label: "Reference count", Type: TypeUint32, Source: SourceHandle},
}

// Entry returns the table entry of the query. It panics (with ErrInvalidQuery) for values outside the table.
func (p QueueParam) Entry() *Entry { return lookupEntry(queueEntries[:], OwnerQueue, int(p)) }

// String returns the canonical name of the query.
func (p QueueParam) String() string { return p.Entry().Name }

func init() {
	checkTable(deviceEntries[:], OwnerDevice)
	checkTable(platformEntries[:], OwnerPlatform)
	checkTable(contextEntries[:], OwnerContext)
	checkTable(queueEntries[:], OwnerQueue)
}
