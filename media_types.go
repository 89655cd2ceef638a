package manifold

// Artifact and media types for the well-known Manifold repositories.
const (
	// ArtifactTypePersona marks a repository as holding persona documents.
	ArtifactTypePersona = "persona"

	// ArtifactTypeSkill marks a repository as holding skill documents.
	ArtifactTypeSkill = "skill"

	// MediaTypePersona is the media type for persona JSON documents.
	MediaTypePersona = "application/vnd.manifold.persona.v1+json"

	// MediaTypeSkill is the media type for skill markdown documents.
	MediaTypeSkill = "text/markdown"
)

// Well-known repository names.
const (
	RepositoryPersonas = "personas"
	RepositorySkills   = "skills"
)
