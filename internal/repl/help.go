package repl

// HelpText is printed by the help command.
const HelpText = `Commands:
  load <path> [as <alias>]        load an image file (also: load image <path> ...)
  load session <name>             replace the studio with a saved session
  save session <name>             save the studio under name
  info                            show the current image and all loaded images
  render [alias]                  print an image as ASCII art (default: current)
  set <alias> width <n>           resize, keeping the aspect ratio
  set <alias> height <n>          resize, keeping the aspect ratio
  set <alias> brightness <f>      scale brightness (1.0 leaves it unchanged)
  set <alias> contrast <f>        scale contrast (1.0 leaves it unchanged)
  sessions                        list saved sessions
  export [path]                   write the studio to a .jsonl session file
  import <path>                   replace the studio with a session file
  png <path> [alias]              write a rendered image as a PNG preview
  help                            show this help
  quit                            leave the studio (also: exit)

Paths and aliases containing spaces can be quoted: load "my cat.png" as cat
`
