package models

// Document is implemented by every model stored as a Firestore document.
// The ID is the document ID and is never written as a field.
type Document interface {
	DocumentID() string
	SetDocumentID(id string)
}

// ProjectScoped documents carry a projectId field and can be listed per project.
type ProjectScoped interface {
	Document
	ProjectRef() string
}
