package main

const (
	MsgRootShort = "Install files, symlinks, directories and trees from manifests"
	MsgRootLong  = `pkginstall reads one or more manifests and applies each entry in order:
copying files, creating symlinks and directories, and copying directory
trees, then enforcing the requested mode and ownership.

Run "pkginstall help topics" for details on manifests, destdir handling,
invocation modes and ownership.`
	MsgRootExample = `  # Install into a staging root
  pkginstall --destdir /tmp/stage install.json

  # Show what would be installed
  pkginstall --dry-run -v install.yaml`

	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagQuiet       = "Decrease verbosity (-q errors only)"
	MsgFlagDestdir     = "Staging root prepended to every destination (overrides DESTDIR)"
	MsgFlagWipeDestdir = "Remove the destdir before installing"
	MsgFlagDryRun      = "Log the actions that would be taken without changing anything"
	MsgFlagConfig      = "Settings file (default $XDG_CONFIG_HOME/pkginstall/config.toml)"

	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgCompletionLong  = `To load completions:

Bash:
  $ source <(pkginstall completion bash)

Zsh:
  $ pkginstall completion zsh > "${fpath[1]}/_pkginstall"

Fish:
  $ pkginstall completion fish | source

PowerShell:
  PS> pkginstall completion powershell | Out-String | Invoke-Expression
`
	MsgManShort = "Generate the man page on stdout"

	MsgInstalled    = "Installed %d %s"
	MsgWouldInstall = "Dry run: would install %d %s"
	MsgIntoDestdir  = " into %s"
	MsgErrorPrefix  = "Error: %v"
	MsgNoManifests  = "at least one manifest is required"
)

const (
	MsgUsageTemplate = `{{boldUpper "Usage"}}:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

{{boldUpper "Aliases"}}:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

{{boldUpper "Examples"}}:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

{{boldUpper "Commands"}}:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{boldUpper "Flags"}}:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

{{boldUpper "Global Flags"}}:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.
Use "{{.Root.Name}} help topics" to list help topics.{{end}}
`
)
