package syntax

// Highlight queries below are intentionally small subsets of the standard
// nvim-treesitter-style queries: just enough captures to distinguish the
// canonical categories the theme layer understands (keyword, string,
// function, comment, variable, number, boolean, property, identifier).

const rustHighlights = `
(line_comment) @comment
(block_comment) @comment
(string_literal) @string
(char_literal) @string
(integer_literal) @number
(float_literal) @number
(boolean_literal) @boolean
[
  "fn" "let" "mut" "pub" "struct" "enum" "impl" "trait" "match" "if" "else"
  "for" "while" "loop" "return" "use" "mod" "const" "static" "where" "async"
  "await" "move" "ref" "dyn" "unsafe"
] @keyword
(function_item name: (identifier) @function)
(call_expression function: (identifier) @function)
(field_identifier) @property
(identifier) @variable
`

const goHighlights = `
(comment) @comment
(interpreted_string_literal) @string
(raw_string_literal) @string
(rune_literal) @string
(int_literal) @number
(float_literal) @number
(true) @boolean
(false) @boolean
[
  "func" "package" "import" "var" "const" "type" "struct" "interface" "map"
  "chan" "go" "defer" "if" "else" "for" "range" "switch" "case" "default"
  "return" "break" "continue" "select"
] @keyword
(function_declaration name: (identifier) @function)
(call_expression function: (identifier) @function)
(selector_expression field: (field_identifier) @property)
(identifier) @variable
`

const javaHighlights = `
(line_comment) @comment
(block_comment) @comment
(string_literal) @string
(decimal_integer_literal) @number
(decimal_floating_point_literal) @number
(true) @boolean
(false) @boolean
[
  "class" "interface" "enum" "extends" "implements" "public" "private"
  "protected" "static" "final" "void" "new" "return" "if" "else" "for"
  "while" "do" "switch" "case" "default" "break" "continue" "try" "catch"
  "finally" "throw" "throws" "import" "package"
] @keyword
(method_declaration name: (identifier) @function)
(method_invocation name: (identifier) @function)
(method_invocation object: (identifier) @variable)
(type_identifier) @variable
(identifier) @identifier
`

const javascriptHighlights = `
(comment) @comment
(string) @string
(template_string) @string
(number) @number
(true) @boolean
(false) @boolean
[
  "function" "const" "let" "var" "if" "else" "for" "while" "do" "switch"
  "case" "default" "return" "break" "continue" "class" "extends" "new"
  "try" "catch" "finally" "throw" "async" "await" "import" "export" "from"
  "typeof" "instanceof"
] @keyword
(function_declaration name: (identifier) @function)
(call_expression function: (identifier) @function)
(member_expression property: (property_identifier) @property)
(identifier) @variable
`

const typescriptHighlights = javascriptHighlights + `
(type_identifier) @variable
(predefined_type) @keyword
`

const tomlHighlights = `
(comment) @comment
(string) @string
(integer) @number
(float) @number
(boolean) @boolean
(bare_key) @property
(quoted_key) @property
`

const yamlHighlights = `
(comment) @comment
(string_scalar) @string
(single_quote_scalar) @string
(double_quote_scalar) @string
(integer_scalar) @number
(float_scalar) @number
(boolean_scalar) @boolean
(block_mapping_pair key: (flow_node) @property)
`

const bashHighlights = `
(comment) @comment
(string) @string
(raw_string) @string
(number) @number
[
  "if" "then" "else" "elif" "fi" "for" "while" "do" "done" "case" "esac"
  "function" "in" "return"
] @keyword
(command_name (word) @function)
(variable_name) @variable
`

const haskellHighlights = `
(comment) @comment
(string) @string
(integer) @number
(float) @number
[
  "let" "in" "where" "case" "of" "if" "then" "else" "do" "data" "type"
  "newtype" "class" "instance" "import" "module" "deriving"
] @keyword
(function name: (variable) @function)
(variable) @variable
`
