package export

// Schema DDL for the SQLite export.
const (
	createMeta = `CREATE TABLE meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`

	createTasks = `CREATE TABLE tasks (
    task_id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    status TEXT NOT NULL,
    tier TEXT NOT NULL,
    priority TEXT NOT NULL,
    creator TEXT NOT NULL,
    created_at TEXT NOT NULL,
    last_updated TEXT NOT NULL,
    last_editor TEXT NOT NULL
);`

	createLabels = `CREATE TABLE labels (
    task_id TEXT NOT NULL,
    label TEXT NOT NULL,
    PRIMARY KEY (task_id, label),
    FOREIGN KEY (task_id) REFERENCES tasks(task_id)
);`

	createCollaborators = `CREATE TABLE collaborators (
    task_id TEXT NOT NULL,
    collaborator TEXT NOT NULL,
    PRIMARY KEY (task_id, collaborator),
    FOREIGN KEY (task_id) REFERENCES tasks(task_id)
);`

	// depends_on is not a foreign key: stale dependencies are legal.
	createDependencies = `CREATE TABLE dependencies (
    task_id TEXT NOT NULL,
    depends_on TEXT NOT NULL,
    PRIMARY KEY (task_id, depends_on),
    FOREIGN KEY (task_id) REFERENCES tasks(task_id)
);`

	createNotes = `CREATE TABLE notes (
    task_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    time TEXT NOT NULL,
    author TEXT NOT NULL,
    content TEXT NOT NULL,
    PRIMARY KEY (task_id, seq),
    FOREIGN KEY (task_id) REFERENCES tasks(task_id)
);`
)

// Index DDL.
const (
	idxTasksStatus   = `CREATE INDEX idx_tasks_status ON tasks(status);`
	idxLabelsLabel   = `CREATE INDEX idx_labels_label ON labels(label);`
	idxDependsOn     = `CREATE INDEX idx_dependencies_depends_on ON dependencies(depends_on);`
	idxCollaborators = `CREATE INDEX idx_collaborators_collaborator ON collaborators(collaborator);`
)

var schemaSQL = createMeta + createTasks + createLabels + createCollaborators +
	createDependencies + createNotes +
	idxTasksStatus + idxLabelsLabel + idxDependsOn + idxCollaborators
