package circuits

// names of the artifacts of a circuit instance, used in logs and records
const (
	CircuitDefinitionName = "ccs"
	ProvingKeyName        = "pk"
	VerifyingKeyName      = "vk"
)
