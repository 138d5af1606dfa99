package nidm

// Namespaces used by NIDM-Results documents.
const (
	// Namespace is the NIDM-Results ontology namespace.
	Namespace = "http://www.incf.org/ns/nidash/nidm#"

	// SPMNamespace holds SPM-specific extensions.
	SPMNamespace = "http://www.incf.org/ns/nidash/spm#"

	// ProvNamespace is the W3C PROV-O namespace.
	ProvNamespace = "http://www.w3.org/ns/prov#"
)

// PROV-O classes NIDM-Results builds on.
const (
	ProvEntity        = ProvNamespace + "Entity"
	ProvActivity      = ProvNamespace + "Activity"
	ProvAgent         = ProvNamespace + "Agent"
	ProvSoftwareAgent = ProvNamespace + "SoftwareAgent"
	ProvPerson        = ProvNamespace + "Person"
	ProvBundle        = ProvNamespace + "Bundle"
)

// Class IRIs of the NIDM-Results model.
const (
	// ClassMap is the common superclass of all image maps.
	ClassMap = Namespace + "Map"

	// Inputs of the model fitting step.
	ClassData            = Namespace + "Data"
	ClassDesignMatrix    = Namespace + "DesignMatrix"
	ClassErrorModel      = Namespace + "ErrorModel"
	ClassCoordinateSpace = Namespace + "CoordinateSpace"
	ClassMapHeader       = Namespace + "MapHeader"

	// Model parameters estimation and its outputs.
	ClassModelParametersEstimation = Namespace + "ModelParametersEstimation"
	ClassParameterEstimateMap      = Namespace + "ParameterEstimateMap"
	ClassResidualMeanSquaresMap    = Namespace + "ResidualMeanSquaresMap"
	ClassMaskMap                   = Namespace + "MaskMap"

	// Contrast estimation and its outputs.
	ClassContrastEstimation       = Namespace + "ContrastEstimation"
	ClassContrastWeights          = Namespace + "ContrastWeights"
	ClassContrastMap              = Namespace + "ContrastMap"
	ClassContrastStandardErrorMap = Namespace + "ContrastStandardErrorMap"
	ClassStatisticMap             = Namespace + "StatisticMap"

	// Inference and its outputs.
	ClassInference        = Namespace + "Inference"
	ClassHeightThreshold  = Namespace + "HeightThreshold"
	ClassExtentThreshold  = Namespace + "ExtentThreshold"
	ClassExcursionSet     = Namespace + "ExcursionSet"
	ClassSearchSpaceMap   = Namespace + "SearchSpaceMap"
	ClassClusterLabelsMap = Namespace + "ClusterLabelsMap"
	ClassCluster          = Namespace + "Cluster"
	ClassPeak             = Namespace + "Peak"
	ClassCoordinate       = Namespace + "Coordinate"
)

// SPM-specific classes.
const (
	// SPMSoftware identifies the SPM software agent.
	SPMSoftware = SPMNamespace + "SPM"

	SPMReselsPerVoxelMap = SPMNamespace + "ReselsPerVoxelMap"
)

// Property IRIs.
const (
	ProvWasGeneratedBy    = ProvNamespace + "wasGeneratedBy"
	ProvUsed              = ProvNamespace + "used"
	ProvWasAssociatedWith = ProvNamespace + "wasAssociatedWith"
	ProvWasDerivedFrom    = ProvNamespace + "wasDerivedFrom"
	ProvAtLocation        = ProvNamespace + "atLocation"
	ProvValue             = ProvNamespace + "value"
	ProvWasAttributedTo   = ProvNamespace + "wasAttributedTo"

	PropErrorDegreesOfFreedom  = Namespace + "errorDegreesOfFreedom"
	PropEffectDegreesOfFreedom = Namespace + "effectDegreesOfFreedom"
	PropContrastName           = Namespace + "contrastName"
	PropEquivalentZStatistic   = Namespace + "equivalentZStatistic"
	PropPValueUncorrected      = Namespace + "pValueUncorrected"
	PropClusterSizeInVoxels    = Namespace + "clusterSizeInVoxels"
	PropSearchVolumeInVoxels   = Namespace + "searchVolumeInVoxels"
	PropCoordinateVector       = Namespace + "coordinateVector"
	PropGrandMeanScaling       = Namespace + "grandMeanScaling"
	PropNumberOfDimensions     = Namespace + "numberOfDimensions"
	PropVoxelUnits             = Namespace + "voxelUnits"
	PropInCoordinateSpace      = Namespace + "inCoordinateSpace"
	PropHasMapHeader           = Namespace + "hasMapHeader"
	PropHasClusterLabelsMap    = Namespace + "hasClusterLabelsMap"
)
