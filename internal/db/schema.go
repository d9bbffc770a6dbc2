// ABOUTME: SQL schema for the experiment hierarchy database.
// ABOUTME: Defines experiment, participant, measurement and datapoint tables.
package db

// Column names are read by external tooling; renaming one is a breaking change.
const schema = `
CREATE TABLE IF NOT EXISTS experiment (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    data_state TEXT NOT NULL,
    data_folder TEXT,
    upload_complete INTEGER,
    UNIQUE (name, data_state)
);

CREATE TABLE IF NOT EXISTS participant (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    participant_id TEXT NOT NULL,
    experiment_id INTEGER NOT NULL REFERENCES experiment(id),
    age INTEGER,
    height_cm REAL,
    weight_kg REAL,
    instrument TEXT,
    PRMD_shoulder_neck_right INTEGER,
    PRMD_shoulder_neck_left INTEGER,
    PRMD_upper_arm_right INTEGER,
    PRMD_upper_arm_left INTEGER,
    PRMD_ever INTEGER,
    UNIQUE (experiment_id, participant_id)
);

CREATE TABLE IF NOT EXISTS measurement (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    participant_id INTEGER NOT NULL REFERENCES participant(id),
    timepoint TEXT NOT NULL,
    device TEXT NOT NULL,
    target TEXT NOT NULL,
    axis TEXT NOT NULL,
    unit TEXT NOT NULL,
    UNIQUE (participant_id, timepoint, device, target, axis)
);

CREATE TABLE IF NOT EXISTS datapoint (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    measurement_id INTEGER NOT NULL REFERENCES measurement(id),
    bow_stroke INTEGER,
    up_down INTEGER,
    time_point INTEGER,
    value REAL,
    UNIQUE (measurement_id, bow_stroke, up_down, time_point)
);

CREATE INDEX IF NOT EXISTS idx_participant_experiment ON participant(experiment_id);
CREATE INDEX IF NOT EXISTS idx_measurement_participant ON measurement(participant_id);
CREATE INDEX IF NOT EXISTS idx_measurement_device_timepoint ON measurement(device, timepoint);
CREATE INDEX IF NOT EXISTS idx_datapoint_measurement ON datapoint(measurement_id);
`
