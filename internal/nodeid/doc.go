/*
Package nodeid provides a structured representation for qualified stage
names, the identifiers shared by the resolved stage map and the execution
graph.

The canonical format is `<target>:<stage>`. The target may be empty, in which
case the name starts with the separator (e.g. `:build`). The first separator
splits the two parts, so target names cannot contain a colon while stage names
can.
*/
package nodeid
