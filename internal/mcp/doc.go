// Package mcp wraps the official MCP SDK server and exposes the fsgate
// file toolset as MCP tools. Tool names and payload shapes are the wire
// contract and are identical across the stdio and HTTP transports:
//
//	read_file(path)              -> {success, path, content, size}
//	write_file(path, content)    -> {success, path, size, message}
//	list_directory(path = "")    -> {success, path, items, count}
//	delete_file(path)            -> {success, path, message}
//	create_directory(path)       -> {success, path, message}
//
// Domain failures surface as MCP error results carrying only the
// structured message; resolved filesystem paths never leave the process.
package mcp
