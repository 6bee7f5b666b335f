package utils

// ConfigFileName is the name of the configuration file read from the working directory.
const ConfigFileName = ".snapfold.yaml"

// GlobalConfigDirectoryName is the directory under the user home that holds the global configuration.
const GlobalConfigDirectoryName = ".config/snapfold"

// LoggerInitializationFailedMessageFormat reports a logger construction failure.
const LoggerInitializationFailedMessageFormat = "unable to initialize logger: %w"

// ApplicationExecutionFailedMessage prefixes fatal application errors.
const ApplicationExecutionFailedMessage = "application execution failed"
