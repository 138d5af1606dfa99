package nidm

import "github.com/c360studio/semstreams/vocabulary"

// Provenance predicates (PROV-O) used by NIDM-Results exports.
const (
	// GeneratedBy links an entity to the activity that generated it.
	GeneratedBy = "nidm.prov.generated_by"

	// Used links an activity to an entity it consumed.
	Used = "nidm.prov.used"

	// AssociatedWith links an activity to the agent responsible for it.
	AssociatedWith = "nidm.prov.associated_with"

	// DerivedFrom links an entity to the entity it was derived from.
	DerivedFrom = "nidm.prov.derived_from"

	// AtLocation gives the location of a map file or a peak coordinate.
	AtLocation = "nidm.prov.at_location"

	// Value is a generic literal value (for example a threshold value).
	Value = "nidm.prov.value"
)

// Statistic predicates.
const (
	// ErrorDegreesOfFreedom is the error degrees of freedom of a statistic map.
	ErrorDegreesOfFreedom = "nidm.statistic.error_dof"

	// EffectDegreesOfFreedom is the effect degrees of freedom of a statistic map.
	EffectDegreesOfFreedom = "nidm.statistic.effect_dof"

	// ContrastName is the human-readable contrast name.
	ContrastName = "nidm.statistic.contrast_name"

	// EquivalentZStatistic is the Z value equivalent to a peak statistic.
	EquivalentZStatistic = "nidm.statistic.equivalent_z"

	// PValueUncorrected is the uncorrected p-value of a peak.
	PValueUncorrected = "nidm.statistic.p_uncorrected"
)

// Spatial predicates.
const (
	// ClusterSizeInVoxels is the extent of a cluster or extent threshold.
	ClusterSizeInVoxels = "nidm.spatial.cluster_size"

	// SearchVolumeInVoxels is the size of the search space.
	SearchVolumeInVoxels = "nidm.spatial.search_volume"

	// CoordinateVector is the coordinate triple of a peak location.
	CoordinateVector = "nidm.spatial.coordinate_vector"

	// NumberOfDimensions is the dimensionality of a coordinate space.
	NumberOfDimensions = "nidm.spatial.dimensions"

	// VoxelUnits lists the units of each voxel axis.
	VoxelUnits = "nidm.spatial.voxel_units"

	// InCoordinateSpace links a map to its coordinate space.
	InCoordinateSpace = "nidm.spatial.coordinate_space"
)

// Model predicates.
const (
	// GrandMeanScaling tells whether grand mean scaling was applied.
	GrandMeanScaling = "nidm.model.grand_mean_scaling"

	// HasMapHeader links a map to its header file entity.
	HasMapHeader = "nidm.model.map_header"

	// HasClusterLabelsMap links an excursion set to its cluster labels map.
	HasClusterLabelsMap = "nidm.model.cluster_labels_map"
)

// Predicates returns every predicate this package registers.
func Predicates() []string {
	return []string{
		GeneratedBy, Used, AssociatedWith, DerivedFrom, AtLocation, Value,
		ErrorDegreesOfFreedom, EffectDegreesOfFreedom, ContrastName,
		EquivalentZStatistic, PValueUncorrected,
		ClusterSizeInVoxels, SearchVolumeInVoxels, CoordinateVector,
		NumberOfDimensions, VoxelUnits, InCoordinateSpace,
		GrandMeanScaling, HasMapHeader, HasClusterLabelsMap,
	}
}

// Classes returns the class IRIs of the NIDM-Results model, including the
// PROV-O classes it extends.
func Classes() []string {
	return []string{
		ProvEntity, ProvActivity, ProvAgent, ProvSoftwareAgent, ProvPerson, ProvBundle,
		ClassMap, ClassData, ClassDesignMatrix, ClassErrorModel, ClassCoordinateSpace, ClassMapHeader,
		ClassModelParametersEstimation, ClassParameterEstimateMap, ClassResidualMeanSquaresMap, ClassMaskMap,
		ClassContrastEstimation, ClassContrastWeights, ClassContrastMap, ClassContrastStandardErrorMap,
		ClassStatisticMap, ClassInference, ClassHeightThreshold, ClassExtentThreshold, ClassExcursionSet,
		ClassSearchSpaceMap, ClassClusterLabelsMap, ClassCluster, ClassPeak, ClassCoordinate,
		SPMSoftware, SPMReselsPerVoxelMap,
	}
}

func init() {
	// Provenance predicates
	vocabulary.Register(GeneratedBy,
		vocabulary.WithDescription("Activity that generated the entity"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithRange(ProvActivity),
		vocabulary.WithIRI(ProvWasGeneratedBy))

	vocabulary.Register(Used,
		vocabulary.WithDescription("Entity consumed by the activity"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithRange(ProvEntity),
		vocabulary.WithIRI(ProvUsed))

	vocabulary.Register(AssociatedWith,
		vocabulary.WithDescription("Agent responsible for the activity"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithRange(ProvAgent),
		vocabulary.WithIRI(ProvWasAssociatedWith))

	vocabulary.Register(DerivedFrom,
		vocabulary.WithDescription("Entity this entity was derived from"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithRange(ProvEntity),
		vocabulary.WithIRI(ProvWasDerivedFrom))

	vocabulary.Register(AtLocation,
		vocabulary.WithDescription("Location of a map file or coordinate"),
		vocabulary.WithDataType("any"),
		vocabulary.WithIRI(ProvAtLocation))

	vocabulary.Register(Value,
		vocabulary.WithDescription("Literal value"),
		vocabulary.WithDataType("any"),
		vocabulary.WithIRI(ProvValue))

	// Statistic predicates
	vocabulary.Register(ErrorDegreesOfFreedom,
		vocabulary.WithDescription("Error degrees of freedom"),
		vocabulary.WithDataType("float32"),
		vocabulary.WithIRI(PropErrorDegreesOfFreedom))

	vocabulary.Register(EffectDegreesOfFreedom,
		vocabulary.WithDescription("Effect degrees of freedom"),
		vocabulary.WithDataType("float32"),
		vocabulary.WithIRI(PropEffectDegreesOfFreedom))

	vocabulary.Register(ContrastName,
		vocabulary.WithDescription("Contrast name"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropContrastName))

	vocabulary.Register(EquivalentZStatistic,
		vocabulary.WithDescription("Equivalent Z statistic of a peak"),
		vocabulary.WithDataType("float32"),
		vocabulary.WithIRI(PropEquivalentZStatistic))

	vocabulary.Register(PValueUncorrected,
		vocabulary.WithDescription("Uncorrected p-value"),
		vocabulary.WithDataType("float64"),
		vocabulary.WithRange("0-1"),
		vocabulary.WithIRI(PropPValueUncorrected))

	// Spatial predicates
	vocabulary.Register(ClusterSizeInVoxels,
		vocabulary.WithDescription("Cluster size in voxels"),
		vocabulary.WithDataType("int32"),
		vocabulary.WithIRI(PropClusterSizeInVoxels))

	vocabulary.Register(SearchVolumeInVoxels,
		vocabulary.WithDescription("Search volume in voxels"),
		vocabulary.WithDataType("int32"),
		vocabulary.WithIRI(PropSearchVolumeInVoxels))

	vocabulary.Register(CoordinateVector,
		vocabulary.WithDescription("Coordinate vector of a location"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropCoordinateVector))

	vocabulary.Register(NumberOfDimensions,
		vocabulary.WithDescription("Number of dimensions"),
		vocabulary.WithDataType("int32"),
		vocabulary.WithIRI(PropNumberOfDimensions))

	vocabulary.Register(VoxelUnits,
		vocabulary.WithDescription("Voxel units"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropVoxelUnits))

	vocabulary.Register(InCoordinateSpace,
		vocabulary.WithDescription("Coordinate space of a map"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithRange(ClassCoordinateSpace),
		vocabulary.WithIRI(PropInCoordinateSpace))

	// Model predicates
	vocabulary.Register(GrandMeanScaling,
		vocabulary.WithDescription("Grand mean scaling applied"),
		vocabulary.WithDataType("bool"),
		vocabulary.WithIRI(PropGrandMeanScaling))

	vocabulary.Register(HasMapHeader,
		vocabulary.WithDescription("Header of a map"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithRange(ClassMapHeader),
		vocabulary.WithIRI(PropHasMapHeader))

	vocabulary.Register(HasClusterLabelsMap,
		vocabulary.WithDescription("Cluster labels map of an excursion set"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithRange(ClassClusterLabelsMap),
		vocabulary.WithIRI(PropHasClusterLabelsMap))
}
